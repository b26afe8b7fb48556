package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Data struct {
		LedgerFile  string `mapstructure:"ledger_file"`
		MastersFile string `mapstructure:"masters_file"`
	} `mapstructure:"data"`

	Mills struct {
		Names []string
	} `mapstructure:"mills"`

	IDs struct {
		Strategy string
	} `mapstructure:"ids"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("data.ledger_file", "data/inventory_transactions.csv")
	v.SetDefault("data.masters_file", "data/inventory_masters.csv")
	v.SetDefault("mills.names", []string{
		"Ball Mill 1", "Ball Mill 2", "Ball Mill 3", "Ball Mill 4", "Ball Mill 5",
	})
	v.SetDefault("ids.strategy", "count")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
