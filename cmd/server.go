package cmd

import (
	"BassTab/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动BassTab服务器",
	Long:  `启动贝斯谱配对系统的HTTP服务器，提供API服务和播放会话`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
