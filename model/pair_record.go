package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// BarMarkerList 自定义类型用于 GORM JSON 字段的自动扫描
type BarMarkerList []BarMarker

// Scan 实现 sql.Scanner 接口
func (l *BarMarkerList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*l = nil
		return nil
	}
	if len(bytes) == 0 || string(bytes) == "null" {
		*l = nil
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value 实现 driver.Valuer 接口
func (l BarMarkerList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Pair 曲目配对存储记录（一行对应一个页面的完整载荷）
type Pair struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug string `json:"slug" gorm:"size:150;uniqueIndex;not null"`

	TrackTitle     string `json:"trackTitle" gorm:"size:200;not null"`
	TrackArtist    string `json:"trackArtist" gorm:"size:100;not null"`
	TrackYear      int    `json:"trackYear" gorm:"not null"`
	TrackYoutubeID string `json:"trackYoutubeId" gorm:"size:11;not null;index"`
	TrackSpotifyID string `json:"trackSpotifyId" gorm:"size:22"`

	OriginalTitle     string `json:"originalTitle" gorm:"size:200;not null"`
	OriginalArtist    string `json:"originalArtist" gorm:"size:100;not null"`
	OriginalYear      int    `json:"originalYear" gorm:"not null"`
	OriginalYoutubeID string `json:"originalYoutubeId" gorm:"size:11;not null"`
	OriginalSpotifyID string `json:"originalSpotifyId" gorm:"size:22"`

	IsBassSample     bool    `json:"isBassSample" gorm:"default:true;index"`
	SampleType       string  `json:"sampleType" gorm:"size:20;not null"`
	TrackStartSec    float64 `json:"trackStartSec" gorm:"not null"`
	OriginalStartSec float64 `json:"originalStartSec" gorm:"not null"`
	Notes            string  `json:"notes" gorm:"type:text"`

	Tuning     string        `json:"tuning" gorm:"size:10;not null"`
	Difficulty int           `json:"difficulty" gorm:"not null;index"`
	TabText    string        `json:"tabText" gorm:"type:text;not null"`
	Bars       BarMarkerList `json:"bars" gorm:"type:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Pair) TableName() string {
	return "pairs"
}

// ToPayload 转换为页面载荷
func (p *Pair) ToPayload() *PagePayload {
	return &PagePayload{
		Track: Track{
			Title:     p.TrackTitle,
			Artist:    p.TrackArtist,
			Year:      p.TrackYear,
			YoutubeID: p.TrackYoutubeID,
			SpotifyID: p.TrackSpotifyID,
		},
		Original: Track{
			Title:     p.OriginalTitle,
			Artist:    p.OriginalArtist,
			Year:      p.OriginalYear,
			YoutubeID: p.OriginalYoutubeID,
			SpotifyID: p.OriginalSpotifyID,
		},
		SampleMap: SampleMap{
			IsBassSample:     p.IsBassSample,
			SampleType:       SampleType(p.SampleType),
			TrackStartSec:    p.TrackStartSec,
			OriginalStartSec: p.OriginalStartSec,
			Notes:            p.Notes,
		},
		Tab: Tab{
			Tuning:     Tuning(p.Tuning),
			Difficulty: p.Difficulty,
			TabText:    p.TabText,
			Bars:       []BarMarker(p.Bars),
		},
	}
}

// PairFromPayload 由页面载荷构建存储记录
func PairFromPayload(slug string, payload *PagePayload) *Pair {
	return &Pair{
		Slug:              slug,
		TrackTitle:        payload.Track.Title,
		TrackArtist:       payload.Track.Artist,
		TrackYear:         payload.Track.Year,
		TrackYoutubeID:    payload.Track.YoutubeID,
		TrackSpotifyID:    payload.Track.SpotifyID,
		OriginalTitle:     payload.Original.Title,
		OriginalArtist:    payload.Original.Artist,
		OriginalYear:      payload.Original.Year,
		OriginalYoutubeID: payload.Original.YoutubeID,
		OriginalSpotifyID: payload.Original.SpotifyID,
		IsBassSample:      payload.SampleMap.IsBassSample,
		SampleType:        string(payload.SampleMap.SampleType),
		TrackStartSec:     payload.SampleMap.TrackStartSec,
		OriginalStartSec:  payload.SampleMap.OriginalStartSec,
		Notes:             payload.SampleMap.Notes,
		Tuning:            string(payload.Tab.Tuning),
		Difficulty:        payload.Tab.Difficulty,
		TabText:           payload.Tab.TabText,
		Bars:              BarMarkerList(payload.Tab.Bars),
	}
}
