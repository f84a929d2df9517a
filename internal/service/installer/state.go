package installer

// Settings is what the wizard writes to the runtime .env file.
type Settings struct {
	EnableTelegram bool `env:"PLEIA_ENABLE_TELEGRAM"`
	EnableMatrix   bool `env:"PLEIA_ENABLE_MATRIX"`
	EnableCLI      bool `env:"PLEIA_ENABLE_CLI"`

	TelegramToken        string  `env:"PLEIA_TELEGRAM_TOKEN"`
	TelegramAllowedUsers []int64 `env:"PLEIA_TELEGRAM_ALLOWED_USERS"`

	MatrixHomeserver   string   `env:"PLEIA_MATRIX_HOMESERVER"`
	MatrixUser         string   `env:"PLEIA_MATRIX_USER"`
	MatrixPassword     string   `env:"PLEIA_MATRIX_PASSWORD"`
	MatrixServerName   string   `env:"PLEIA_MATRIX_SERVER_NAME"`
	MatrixAllowedUsers []string `env:"PLEIA_MATRIX_ALLOWED_USERS"`

	GazetteerPath string `env:"PLEIA_GAZETTEER_PATH"`
	Silent        bool   `env:"PLEIA_SILENT"`
	Supervised    bool   `env:"PLEIA_SUPERVISED"`
	Debug         string `env:"PLEIA_DEBUG"`
}

type InstallState struct {
	RuntimePath string
	// Channel is only used while the wizard runs.
	Channel  string
	Settings Settings
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{RuntimePath: runtimePath}
}
