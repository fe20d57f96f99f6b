package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/merchant-ops/internal/common"
)

// Default values registered by SetDefaults.
const (
	DefaultLoadMoreDelay = time.Second
	DefaultExportFormat  = "csv"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// App holds the settings shared by every merchops command.
type App struct {
	SeedPath      string
	LogFile       string
	LoadMoreDelay time.Duration
	Width         int
	Height        int
}

// SetDefaults registers default values for every key merchops reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("ui.load_more_delay", DefaultLoadMoreDelay)
	v.SetDefault("ui.width", 0)
	v.SetDefault("ui.height", 0)
	v.SetDefault("export.format", DefaultExportFormat)
	v.SetDefault("sheets.spreadsheet_name", "Merchant Operations Report")
}

// LoadApp reads App from the global viper instance.
func LoadApp() (App, error) {
	return loadApp(viper.GetViper())
}

func loadApp(v *viper.Viper) (App, error) {
	app := App{
		SeedPath:      ExpandPath(v.GetString("seed.path")),
		LogFile:       ExpandPath(v.GetString("logging.file")),
		LoadMoreDelay: v.GetDuration("ui.load_more_delay"),
		Width:         v.GetInt("ui.width"),
		Height:        v.GetInt("ui.height"),
	}

	if app.LoadMoreDelay < 0 {
		return App{}, common.NewUserError(
			fmt.Sprintf("ui.load_more_delay must not be negative (got %s)", app.LoadMoreDelay),
			fmt.Errorf("%w: negative load_more_delay", common.ErrInvalidConfig))
	}
	if app.Width < 0 || app.Height < 0 {
		return App{}, common.NewUserError(
			"ui.width and ui.height must not be negative",
			fmt.Errorf("%w: negative terminal size", common.ErrInvalidConfig))
	}
	return app, nil
}
