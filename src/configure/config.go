package configure

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func checkErr(err error) {
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
}

func New() *Config {
	config := viper.New()
	config.SetConfigType("yaml")

	b, err := json.Marshal(Defaults())

	checkErr(err)
	tmp := viper.New()
	tmp.SetConfigType("json")
	checkErr(tmp.ReadConfig(bytes.NewBuffer(b)))
	checkErr(config.MergeConfigMap(tmp.AllSettings()))

	pflag.String("config", "config.yaml", "Config file location")
	pflag.Bool("noheader", false, "Disable the startup header")
	pflag.String("url", "", "Find the icon of a single page and exit")
	pflag.Parse()
	checkErr(config.BindPFlags(pflag.CommandLine))

	config.SetConfigFile(config.GetString("config"))
	if err := config.ReadInConfig(); err == nil {
		checkErr(config.MergeInConfig())
	}

	cfg := Config{}

	config.SetEnvPrefix("ICON")
	config.AllowEmptyEnv(true)
	config.AutomaticEnv()

	checkErr(config.Unmarshal(&cfg))

	initLogging(cfg.LogLevel, cfg.NoLogs)

	return &cfg
}

func Defaults() Config {
	cfg := Config{
		LogLevel:        "info",
		Config:          "config.yaml",
		MaxTaskDuration: 60,
	}

	cfg.Http.Timeout = 10
	cfg.Http.MaxBodySize = 2 << 20
	cfg.Favicon.ProbeConcurrency = 4
	cfg.Favicon.SvgSize = 256
	cfg.Favicon.WellKnownPaths = []string{
		"/favicon.ico",
		"/favicon.png",
		"/apple-touch-icon.png",
		"/apple-touch-icon-precomposed.png",
	}

	return cfg
}

type Config struct {
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level,omitempty"`
	Config   string `json:"config,omitempty" mapstructure:"config,omitempty"`
	NoHeader bool   `json:"noheader,omitempty" mapstructure:"noheader,omitempty"`
	NoLogs   bool   `json:"nologs,omitempty" mapstructure:"nologs,omitempty"`
	Url      string `json:"url,omitempty" mapstructure:"url,omitempty"`

	// Aws
	Aws struct {
		AccessToken string `json:"access_token,omitempty" mapstructure:"access_token,omitempty"`
		SecretKey   string `json:"secret_key,omitempty" mapstructure:"secret_key,omitempty"`
		Region      string `json:"region,omitempty" mapstructure:"region,omitempty"`
		Endpoint    string `json:"endpoint,omitempty" mapstructure:"endpoint,omitempty"`
	} `json:"aws,omitempty" mapstructure:"aws,omitempty"`

	Rmq struct {
		ServerURL       string `json:"server_url,omitempty" mapstructure:"server_url,omitempty"`
		JobQueueName    string `json:"job_queue_name,omitempty" mapstructure:"job_queue_name,omitempty"`
		ResultQueueName string `json:"result_queue_name,omitempty" mapstructure:"result_queue_name,omitempty"`
		UpdateQueueName string `json:"update_queue_name,omitempty" mapstructure:"update_queue_name,omitempty"`
	} `json:"rmq,omitempty" mapstructure:"rmq,omitempty"`

	Http struct {
		// seconds
		Timeout     int    `json:"timeout,omitempty" mapstructure:"timeout,omitempty"`
		UserAgent   string `json:"user_agent,omitempty" mapstructure:"user_agent,omitempty"`
		MaxBodySize int64  `json:"max_body_size,omitempty" mapstructure:"max_body_size,omitempty"`
	} `json:"http,omitempty" mapstructure:"http,omitempty"`

	Favicon struct {
		WellKnownPaths   []string `json:"well_known_paths,omitempty" mapstructure:"well_known_paths,omitempty"`
		ProbeConcurrency int      `json:"probe_concurrency,omitempty" mapstructure:"probe_concurrency,omitempty"`
		SvgSize          int      `json:"svg_size,omitempty" mapstructure:"svg_size,omitempty"`
	} `json:"favicon,omitempty" mapstructure:"favicon,omitempty"`

	// seconds
	MaxTaskDuration int `json:"max_task_duration,omitempty" mapstructure:"max_task_duration,omitempty"`
}
