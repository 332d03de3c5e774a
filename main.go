package main

import (
	"context"
	"log"
	"os"

	"github.com/ayaan000/shadow-archive/internal/config"
	"github.com/ayaan000/shadow-archive/internal/server"
)

// 使用方法: shadow-archive [port]
//
// カレントディレクトリをドキュメントルートとして配信する。
func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// 位置引数のポート番号で上書き
	port, err := config.ParsePortArg(os.Args[1:], cfg.Server.Port)
	if err != nil {
		log.Fatalf("ポート番号の解析に失敗しました: %v", err)
	}
	cfg.Server.Port = port
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定の検証に失敗しました: %v", err)
	}

	// サーバーを作成
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("サーバーの作成に失敗しました: %v", err)
	}

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
