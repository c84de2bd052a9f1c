package player

// RuntimeLoader loads the external player runtime (the embed script the
// players are built from). A Bootstrap invokes LoadRuntime at most once per
// attempt; the implementation must call done exactly once, with a nil error
// on success.
type RuntimeLoader interface {
	LoadRuntime(done func(err error))
}

// EmbeddedPlayer is the live handle to one constructed embed. Obtained from
// a PlayerFactory, owned by exactly one Controller.
type EmbeddedPlayer interface {
	// SeekTo jumps to the given offset and, when resume is set, continues
	// playback from there.
	SeekTo(seconds float64, resume bool)
	// CurrentOffsetSeconds reports the last known playback position.
	CurrentOffsetSeconds() float64
	// Destroy tears the embed down. Called at most once.
	Destroy() error
}

// InstanceEvents receives the asynchronous construction signals for one
// embed. The factory must deliver exactly one of PlayerReady or
// PlayerFailed per CreatePlayer call; PlayerFailed may additionally arrive
// later for playback errors on an already-ready player.
type InstanceEvents interface {
	PlayerReady(p EmbeddedPlayer)
	PlayerFailed(code int)
}

// PlayerFactory constructs embedded players. CreatePlayer is only invoked
// once the runtime has finished loading.
type PlayerFactory interface {
	CreatePlayer(cfg EmbedConfig, events InstanceEvents)
}

// DisplayFlags carries the embed presentation options passed to the runtime
// on construction.
type DisplayFlags struct {
	SuppressRelated     bool   `json:"suppressRelated"`     // no related-content overlay
	ModestBranding      bool   `json:"modestBranding"`      // minimal runtime branding
	Origin              string `json:"origin"`              // origin the embed is bound to
	EnableJSAPI         bool   `json:"enableJsApi"`         // allow external control
	SuppressCaptions    bool   `json:"suppressCaptions"`    // captions off by default
	SuppressAnnotations bool   `json:"suppressAnnotations"` // annotations off by default
}

// DefaultDisplayFlags returns the flags every pair-page embed uses.
func DefaultDisplayFlags(origin string) DisplayFlags {
	return DisplayFlags{
		SuppressRelated:     true,
		ModestBranding:      true,
		Origin:              origin,
		EnableJSAPI:         true,
		SuppressCaptions:    true,
		SuppressAnnotations: true,
	}
}

// EmbedConfig is the construction call carried to the runtime for one embed.
type EmbedConfig struct {
	VideoID        string       `json:"videoId"`
	StartOffsetSec float64      `json:"startOffsetSec"`
	Flags          DisplayFlags `json:"flags"`
}

// ErrorReason is the closed categorization of runtime error codes.
type ErrorReason string

const (
	ReasonInvalidVideo  ErrorReason = "invalid_video" // identifier malformed or no such video
	ReasonEmbedRejected ErrorReason = "embed_rejected"
	ReasonPlayback      ErrorReason = "playback"
)

// ReasonFromCode maps the runtime's numeric error codes onto the closed
// reason set. Codes follow the IFrame API: 2 invalid parameter, 100 video
// not found, 101/150 embedding disallowed, 5 and anything unknown are
// playback failures.
func ReasonFromCode(code int) ErrorReason {
	switch code {
	case 2, 100:
		return ReasonInvalidVideo
	case 101, 150:
		return ReasonEmbedRejected
	default:
		return ReasonPlayback
	}
}
