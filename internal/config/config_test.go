package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	t.Setenv("SERVER_HOST", "")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// サーバー設定の検証
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("デフォルトホストが一致しません: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("デフォルトポートが一致しません: got %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.ReadTimeout <= 0 {
		t.Error("読み込みタイムアウトが設定されていません")
	}
	// WriteTimeout は 0（無効）でも正常
	if cfg.Server.WriteTimeout < 0 {
		t.Error("書き込みタイムアウトが負の値です")
	}

	// ドキュメントルートはカレントディレクトリ
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Static.Root != wd {
		t.Errorf("ドキュメントルートが一致しません: got %s, want %s", cfg.Static.Root, wd)
	}
	if len(cfg.Static.IndexFiles) == 0 || cfg.Static.IndexFiles[0] != "index.html" {
		t.Errorf("インデックスファイルが一致しません: %v", cfg.Static.IndexFiles)
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		modify    func(c *Config)
		expectErr bool
	}{
		{"正常な設定", func(c *Config) {}, false},
		{"無効なポート番号", func(c *Config) { c.Server.Port = 99999 }, true},
		{"ポート番号0", func(c *Config) { c.Server.Port = 0 }, true},
		{"ホストなし", func(c *Config) { c.Server.Host = "" }, true},
		{"不明なモード", func(c *Config) { c.Server.Mode = "production" }, true},
		{"シャットダウン待ち時間なし", func(c *Config) { c.Server.ShutdownTimeout = 0 }, true},
		{"ドキュメントルートなし", func(c *Config) { c.Static.Root = "" }, true},
		{"インデックスファイルなし", func(c *Config) { c.Static.IndexFiles = nil }, true},
		{"空のインデックスファイル名", func(c *Config) { c.Static.IndexFiles = []string{""} }, true},
		{"スラッシュを含むインデックスファイル名", func(c *Config) { c.Static.IndexFiles = []string{"../index.html"} }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default("/srv/www")
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが、エラーが発生しませんでした")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("予期しないエラーが発生しました: %v", err)
			}
		})
	}
}

// TestServerAddress はサーバーアドレスの生成をテストする
func TestServerAddress(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "192.168.1.100",
			Port: 9090,
		},
	}

	expected := "192.168.1.100:9090"
	actual := cfg.ServerAddress()

	if actual != expected {
		t.Errorf("サーバーアドレスが一致しません: got %s, want %s", actual, expected)
	}
}

// TestEnvironmentVariables は環境変数の処理をテストする
func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("PORT", "9999")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("環境変数のホストが反映されていません: got %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("環境変数のポートが反映されていません: got %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("環境変数のモードが反映されていません: got %s, want debug", cfg.Server.Mode)
	}
}

// TestConfigFile はYAMLファイルによる上書きをテストする
func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  port: 8123
  shutdown_timeout: 2s
static:
  index_files:
    - default.html
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SERVER_HOST", "")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Port != 8123 {
		t.Errorf("ファイルのポートが反映されていません: got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Second {
		t.Errorf("ファイルのシャットダウン待ち時間が反映されていません: got %v", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Static.IndexFiles) != 1 || cfg.Static.IndexFiles[0] != "default.html" {
		t.Errorf("ファイルのインデックスファイルが反映されていません: %v", cfg.Static.IndexFiles)
	}
	// ファイルに書かれていない値はデフォルトのまま
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("デフォルトホストが失われました: got %s", cfg.Server.Host)
	}
}

func TestConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("server: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default(dir)
	if err := cfg.LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("存在しないファイルでエラーになりませんでした")
	}
	if err := cfg.LoadFile(broken); err == nil {
		t.Error("不正なYAMLでエラーになりませんでした")
	}
}

func TestParsePortArg(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		want      int
		expectErr bool
	}{
		{"引数なし", nil, DefaultPort, false},
		{"数値", []string{"9000"}, 9000, false},
		{"余分な引数は無視", []string{"9001", "extra"}, 9001, false},
		{"数値ではない", []string{"abc"}, 0, true},
		{"空文字列", []string{""}, 0, true},
		{"小数", []string{"80.5"}, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePortArg(tc.args, DefaultPort)
			if tc.expectErr {
				if err == nil {
					t.Errorf("エラーが期待されましたが、%d が返されました", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラーが発生しました: %v", err)
			}
			if got != tc.want {
				t.Errorf("ポート番号が一致しません: got %d, want %d", got, tc.want)
			}
		})
	}
}

// TestLoadDefersValidation は環境変数の不正な値をコマンドライン引数で上書きできることを検証する
func TestLoadDefersValidation(t *testing.T) {
	t.Setenv("SERVER_HOST", "")
	t.Setenv("PORT", "0")
	t.Setenv("GIN_MODE", "")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("ポート番号0で検証が成功しました")
	}

	port, err := ParsePortArg([]string{"9000"}, cfg.Server.Port)
	if err != nil {
		t.Fatalf("ポート番号の解析に失敗しました: %v", err)
	}
	cfg.Server.Port = port
	if err := cfg.Validate(); err != nil {
		t.Errorf("上書き後の検証に失敗しました: %v", err)
	}
}
