package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayaan000/shadow-archive/internal/config"
	"github.com/ayaan000/shadow-archive/internal/contenttype"
	"github.com/ayaan000/shadow-archive/internal/static"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	engine     *gin.Engine
	static     *static.Handler
	httpServer *http.Server
	listener   net.Listener
	sigCh      chan os.Signal // Listen で登録し Serve で待つ
	out        io.Writer      // 起動・停止メッセージの出力先
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config) (*Server, error) {
	handler, err := static.NewHandler(cfg.Static.Root, cfg.Static.IndexFiles, contenttype.NewResolver())
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	s := &Server{
		config: cfg,
		engine: engine,
		static: handler,
		httpServer: &http.Server{
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		out: os.Stdout,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(requestLogger(), gin.Recovery())

	// すべてのパスを静的ファイルとして扱う
	s.engine.GET("/*filepath", s.static.Serve)
	s.engine.HEAD("/*filepath", s.static.Serve)
}

// Handler はリクエストを処理するhttp.Handlerを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// SetOutput は起動・停止メッセージの出力先を変更する
func (s *Server) SetOutput(w io.Writer) {
	s.out = w
}

// Listen は待ち受けポートをバインドし、起動メッセージを表示する
func (s *Server) Listen() (net.Addr, error) {
	addr := s.config.ServerAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &StartupError{Op: "listen", Addr: addr, Err: err}
	}
	s.listener = ln

	// 起動メッセージより前に登録し、表示直後の Ctrl+C も Serve で受け取る
	s.sigCh = make(chan os.Signal, 1)
	signal.Notify(s.sigCh, syscall.SIGINT, syscall.SIGTERM)

	port := s.config.Server.Port
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	url := fmt.Sprintf("http://localhost:%d/", port)
	fmt.Fprintf(s.out, "Server running on %s\n", color.New(color.FgGreen, color.Underline).Sprint(url))
	fmt.Fprintln(s.out, color.New(color.Faint).Sprint("Press Ctrl+C to stop"))

	return ln.Addr(), nil
}

// Start はサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve はバインド済みのポートでリクエストの処理を開始し、
// コンテキストのキャンセルかシグナルを受けるまでブロックする
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil || s.sigCh == nil {
		return &StartupError{Op: "serve", Addr: s.config.ServerAddress(), Err: errors.New("ポートがバインドされていません")}
	}
	defer signal.Stop(s.sigCh)

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s (root: %s)", s.listener.Addr(), s.static.Root())
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-s.sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		return err
	}

	fmt.Fprintln(s.out, "\nServer stopped.")

	// グレースフルシャットダウン。割り込みによる停止は常に正常終了とする
	if err := s.Shutdown(); err != nil {
		log.Printf("シャットダウン中にエラーが発生しました: %v", err)
	}
	return nil
}

// Shutdown はサーバーをグレースフルにシャットダウンする。
// ShutdownTimeout までに終わらないリクエストは接続ごと切断する。
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
		}
		log.Printf("処理中のリクエストが %v 以内に終わらなかったため接続を切断します", s.config.Server.ShutdownTimeout)
		if err := s.httpServer.Close(); err != nil {
			return fmt.Errorf("接続の切断に失敗: %w", err)
		}
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
