// Package main はフラグで設定を指定できるサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ayaan000/shadow-archive/internal/config"
	"github.com/ayaan000/shadow-archive/internal/server"
)

// options はコマンドラインオプション
type options struct {
	host string
	port int
	help bool
}

// parseOptions はコマンドラインオプションを解析する
func parseOptions(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.host, "host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
	fs.IntVar(&opts.port, "port", 0, "サーバーのポート (デフォルト: 8000)")
	fs.BoolVar(&opts.help, "help", false, "ヘルプを表示")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

// apply はオプションで設定を上書きし、検証する
func (o *options) apply(cfg *config.Config) error {
	if o.host != "" {
		cfg.Server.Host = o.host
	}
	if o.port != 0 {
		cfg.Server.Port = o.port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定の検証に失敗: %w", err)
	}
	return nil
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("shadow-archive")
	fmt.Println()
	fmt.Println("カレントディレクトリを静的ファイルとして配信します。")
	fmt.Println()
	fmt.Println("使用方法:")
	fmt.Println("  server [オプション]")
	fmt.Println()
	fmt.Println("オプション:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
}

func main() {
	opts, fs, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("オプションの解析に失敗しました: %v", err)
	}

	// ヘルプ表示
	if opts.help {
		printHelp(fs)
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if err := opts.apply(cfg); err != nil {
		log.Fatalf("%v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("サーバーの作成に失敗しました: %v", err)
	}

	log.Printf("shadow-archive サーバーを起動します: %s", cfg.ServerAddress())
	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
