package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		// telegram_channel_id must be the numeric chat id (e.g.
		// -1001234567890); @channelname destinations are not supported.
		viper.BindEnv("telegram_channel_id", "TELEGRAM_CHANNEL_ID")
		viper.BindEnv("schedule_interval_hours", "SCHEDULE_INTERVAL_HOURS")
		viper.BindEnv("default_timeframe", "DEFAULT_TIMEFRAME")
		viper.BindEnv("capture_strategy", "CAPTURE_STRATEGY")
		viper.BindEnv("heatmap_url", "HEATMAP_URL")
		viper.BindEnv("dropdown_selector", "DROPDOWN_SELECTOR")
		viper.BindEnv("chart_selector", "CHART_SELECTOR")
		viper.BindEnv("remote_browser_url", "REMOTE_BROWSER_URL")
		viper.BindEnv("screenshot_api_url", "SCREENSHOT_API_URL")
		viper.BindEnv("screenshot_api_key", "SCREENSHOT_API_KEY")
		viper.BindEnv("liquidation_api_url", "LIQUIDATION_API_URL")
		viper.BindEnv("price_api_key", "PRICE_API_KEY")
		viper.BindEnv("http_port", "HTTP_PORT")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("log_level", "LOG_LEVEL")
		viper.BindEnv("log_file", "LOG_FILE")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("schedule_interval_hours", 24)
		viper.SetDefault("default_timeframe", "1 month")
		viper.SetDefault("capture_strategy", "browser")
		viper.SetDefault("heatmap_url", "https://www.coinglass.com/pro/futures/LiquidationHeatMap")
		viper.SetDefault("dropdown_selector", "div.cg-style-161sc7i > div.MuiSelect-root")
		viper.SetDefault("chart_selector", "div.echarts-for-react")
		viper.SetDefault("http_port", 8080)
		viper.SetDefault("db_path", "data/bot.db")
		viper.SetDefault("log_level", "info")
		viper.SetDefault("log_file", "logs/bot.log")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetInt64(key string) int64 {
	InitConfig()
	return viper.GetInt64(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
