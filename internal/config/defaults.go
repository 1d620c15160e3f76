package config

const (
	defaultMaxTracks        = 6
	defaultFrames           = 600
	defaultKeyframeInterval = 120
	defaultReportInterval   = 120
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultCapturePath      = "bpm-capture.db"
)

// Default returns a Config populated with repository defaults: a two-track
// simulation matching the classic full-rate plus half-rate rendition pair.
func Default() Config {
	return Config{
		MaxTracks:        defaultMaxTracks,
		Frames:           defaultFrames,
		KeyframeInterval: defaultKeyframeInterval,
		ReportInterval:   defaultReportInterval,
		LogLevel:         defaultLogLevel,
		LogFormat:        defaultLogFormat,
		Renditions: []Rendition{
			{Fingerprint: "h264_1080p_60fps", EveryNth: 1},
			{Fingerprint: "h264_720p_30fps", EveryNth: 2},
		},
		Capture: Capture{
			Enabled: false,
			Path:    defaultCapturePath,
		},
	}
}
