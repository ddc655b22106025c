package config

const (
	defaultStagingDir         = "~/.local/share/slidecast/staging"
	defaultOutputDir          = "~/slidecast"
	defaultLogDir             = "~/.local/share/slidecast/logs"
	defaultAPIBind            = "127.0.0.1:7319"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultPresenterSeconds   = 3.0
	defaultClipSeconds        = 5.0
	defaultTitleOffset        = 0.12
	defaultSpeechTimeout      = 60
	defaultWordsPerSecond     = 2.5
	defaultFFmpegBinary       = "ffmpeg"
	defaultProbeBinary        = "ffprobe"
	defaultFFmpegTimeout      = 300
	defaultQueuePollInterval  = 2
	defaultErrorRetryInterval = 5
	defaultMaxWorkers         = 2
	defaultMaxActiveJobs      = 16
	defaultJobTimeoutSeconds  = 900
	defaultStagingMaxAgeHours = 24
	defaultNotifyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Render: Render{
			PresenterSeconds:   defaultPresenterSeconds,
			DefaultClipSeconds: defaultClipSeconds,
			TitleOffset:        defaultTitleOffset,
		},
		Speech: Speech{
			Enabled:        true,
			TimeoutSeconds: defaultSpeechTimeout,
			WordsPerSecond: defaultWordsPerSecond,
		},
		FFmpeg: FFmpeg{
			Binary:         defaultFFmpegBinary,
			ProbeBinary:    defaultProbeBinary,
			TimeoutSeconds: defaultFFmpegTimeout,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			MaxWorkers:         defaultMaxWorkers,
			MaxActiveJobs:      defaultMaxActiveJobs,
			JobTimeoutSeconds:  defaultJobTimeoutSeconds,
			StagingMaxAgeHours: defaultStagingMaxAgeHours,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			JobQueued:      true,
			JobCompleted:   true,
			JobFailed:      true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
