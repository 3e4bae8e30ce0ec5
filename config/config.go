package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/viper"

	"github.com/VishalDET/ASG/pkg/otellib"
)

// ListenConfig ...
type ListenConfig struct {
	Host string `mapstructure:"host"`
	Port uint16 `mapstructure:"port"`
}

// String ...
func (c ListenConfig) String() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ListenString ...
func (c ListenConfig) ListenString() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ServerConfig ...
type ServerConfig struct {
	HTTP ListenConfig `mapstructure:"http"`
}

// Config ...
type Config struct {
	Server   ServerConfig         `mapstructure:"server"`
	Log      LogConfig            `mapstructure:"log"`
	MySQL    MySQLConfig          `mapstructure:"mysql"`
	Memcache MemcacheConfig       `mapstructure:"memcache"`
	Jaeger   otellib.JaegerConfig `mapstructure:"jaeger"`
	Promo    PromoConfig          `mapstructure:"promo"`
}

// Load config from config.yml
func Load() Config {
	vip := viper.New()
	vip.SetConfigName("config")
	vip.SetConfigType("yml")
	vip.AddConfigPath(".")
	vip.AddConfigPath("./config")

	return loadConfig(vip)
}

// LoadTestConfig config for integration testing
func LoadTestConfig(rootDir string) Config {
	vip := viper.New()
	vip.SetConfigName("config_test")
	vip.SetConfigType("yml")
	vip.AddConfigPath(path.Join(rootDir, "config"))

	return loadConfig(vip)
}

func loadConfig(vip *viper.Viper) Config {
	vip.SetEnvPrefix("promo")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	err := vip.ReadInConfig()
	if err != nil {
		panic(err)
	}

	var conf Config
	err = vip.Unmarshal(&conf)
	if err != nil {
		panic(err)
	}
	return conf
}
