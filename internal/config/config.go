package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPort は引数で指定されなかった場合のポート番号
const DefaultPort = 8000

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Static StaticConfig `yaml:"static"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host" validate:"required"`                 // リッスンするホスト
	Port int    `yaml:"port" validate:"min=1,max=65535"`          // リッスンするポート番号
	Mode string `yaml:"mode" validate:"oneof=debug release test"` // ginの動作モード

	// タイムアウト設定
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"min=0"`    // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"min=0"`   // 書き込みタイムアウト
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"` // シャットダウン待ち時間
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	Root       string   `yaml:"root" validate:"required"`                              // ドキュメントルート
	IndexFiles []string `yaml:"index_files" validate:"min=1,dive,required,excludes=/"` // ディレクトリ要求時に探すファイル名
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default はデフォルト値の設定を返す
func Default(root string) *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            DefaultPort,
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    0, // 大きなファイルの送信を打ち切らないよう無効化
			ShutdownTimeout: 5 * time.Second,
		},
		Static: StaticConfig{
			Root:       root,
			IndexFiles: []string{"index.html", "index.htm"},
		},
	}
}

// Load は設定を読み込む
//
// 優先順位は 環境変数 > CONFIG_FILE のYAML > デフォルト値。
// ドキュメントルートは起動時のカレントディレクトリ。
// コマンドライン引数で上書きした後に呼び出し側で Validate すること。
func Load() (*Config, error) {
	// .env はなくてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf(".env の読み込みに失敗しました: %v", err)
	}

	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("カレントディレクトリの取得に失敗: %w", err)
	}
	cfg := Default(root)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("PORT", cfg.Server.Port)
	cfg.Server.Mode = getEnvOrDefault("GIN_MODE", cfg.Server.Mode)

	return cfg, nil
}

// LoadFile はYAMLファイルの値で設定を上書きする
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}
	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ParsePortArg はコマンドライン引数の先頭をポート番号として解釈する。
// 引数がなければ defaultPort を返す。
func ParsePortArg(args []string, defaultPort int) (int, error) {
	if len(args) == 0 {
		return defaultPort, nil
	}

	port, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("無効なポート番号 %q: %w", args[0], err)
	}
	return port, nil
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("環境変数 %s の値が整数ではありません: %q", key, value)
	}
	return defaultValue
}
