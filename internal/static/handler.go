package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ayaan000/shadow-archive/internal/contenttype"

	"github.com/gin-gonic/gin"
)

// Resource はリクエストパスから解決されたファイルの情報
type Resource struct {
	URLPath     string    // 正規化されたリクエストパス
	Path        string    // ファイルシステム上の絶対パス
	IsDir       bool      // リクエストされたパスがディレクトリかどうか
	Size        int64     // バイト数
	ModTime     time.Time // 最終更新時刻
	ContentType string    // 拡張子から解決したMIMEタイプ
}

// Handler はドキュメントルート配下の静的ファイルを配信する
type Handler struct {
	root       string
	indexFiles []string
	resolver   *contenttype.Resolver
}

// NewHandler は新しいHandlerを作成する
func NewHandler(root string, indexFiles []string, resolver *contenttype.Resolver) (*Handler, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントルートの解決に失敗: %w", err)
	}
	if resolver == nil {
		resolver = contenttype.NewResolver()
	}

	return &Handler{
		root:       filepath.Clean(absRoot),
		indexFiles: append([]string(nil), indexFiles...),
		resolver:   resolver,
	}, nil
}

// Root はドキュメントルートの絶対パスを返す
func (h *Handler) Root() string {
	return h.root
}

// CleanPath はデコード済みのリクエストパスを正規化する。
// 空要素と "." を取り除き、".." で一つ上に戻る。ルートより上に出る場合は ErrForbidden を返す。
func CleanPath(urlPath string) (string, error) {
	if strings.IndexByte(urlPath, 0) >= 0 {
		return "", ErrForbidden
	}

	segments := make([]string, 0, strings.Count(urlPath, "/"))
	for _, seg := range strings.Split(urlPath, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return "", ErrForbidden
			}
			segments = segments[:len(segments)-1]
		default:
			// Windowsでは "\" もパス区切りになる
			if filepath.Separator != '/' && strings.ContainsRune(seg, filepath.Separator) {
				return "", ErrForbidden
			}
			segments = append(segments, seg)
		}
	}

	return "/" + strings.Join(segments, "/"), nil
}

// Resolve はリクエストパスをファイルに解決する。
// ディレクトリの場合はインデックスファイルを探す。インデックスファイルがない場合も
// IsDir を true にした Resource を ErrNotFound と共に返す。
func (h *Handler) Resolve(urlPath string) (Resource, error) {
	clean, err := CleanPath(urlPath)
	if err != nil {
		return Resource{}, err
	}

	candidate, err := h.join(clean)
	if err != nil {
		return Resource{}, err
	}

	info, err := os.Stat(candidate)
	if err != nil {
		return Resource{}, statError(err)
	}

	res := Resource{URLPath: clean, Path: candidate}
	if info.IsDir() {
		res.IsDir = true
		index, indexInfo, err := h.findIndex(candidate)
		if err != nil {
			return res, err
		}
		res.Path, info = index, indexInfo
	}

	if !info.Mode().IsRegular() {
		return res, ErrNotFound
	}
	// 末尾がスラッシュのパスはディレクトリとしてのみ扱う
	if !res.IsDir && strings.HasSuffix(urlPath, "/") {
		return res, ErrNotFound
	}

	res.Size = info.Size()
	res.ModTime = info.ModTime()
	res.ContentType = h.resolver.ResolvePath(filepath.ToSlash(res.Path))
	return res, nil
}

// join は正規化済みパスをドキュメントルートに結合し、ルート配下にあることを確認する
func (h *Handler) join(clean string) (string, error) {
	candidate := filepath.Join(h.root, filepath.FromSlash(clean))

	rel, err := filepath.Rel(h.root, candidate)
	if err != nil {
		return "", ErrForbidden
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrForbidden
	}
	return candidate, nil
}

// findIndex はディレクトリ内のインデックスファイルを設定順に探す
func (h *Handler) findIndex(dir string) (string, fs.FileInfo, error) {
	for _, name := range h.indexFiles {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(statError(err), ErrNotFound) {
				continue
			}
			return "", nil, statError(err)
		}
		if info.Mode().IsRegular() {
			return p, info, nil
		}
	}
	return "", nil, ErrNotFound
}

// Serve は GET/HEAD リクエストに対してファイルを応答する
func (h *Handler) Serve(c *gin.Context) {
	urlPath := c.Request.URL.Path

	res, err := h.Resolve(urlPath)
	if res.IsDir && !strings.HasSuffix(urlPath, "/") {
		h.redirectToDir(c, res.URLPath)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.serveFile(c, res)
}

// redirectToDir は末尾にスラッシュを付けたパスへリダイレクトする
func (h *Handler) redirectToDir(c *gin.Context, clean string) {
	target := (&url.URL{Path: strings.TrimSuffix(clean, "/") + "/"}).EscapedPath()
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}
	c.Redirect(http.StatusMovedPermanently, target)
}

// serveFile はファイルを開き、ヘッダーと本文を書き込む
func (h *Handler) serveFile(c *gin.Context, res Resource) {
	f, err := os.Open(res.Path)
	if err != nil {
		h.fail(c, statError(err))
		return
	}
	defer f.Close()

	// Resolve 以降に変更されている可能性があるため開いたファイルの情報を使う
	info, err := f.Stat()
	if err != nil {
		h.fail(c, fmt.Errorf("ファイル情報の取得に失敗: %w", err))
		return
	}
	if !info.Mode().IsRegular() {
		h.fail(c, ErrNotFound)
		return
	}

	lastModified := info.ModTime().UTC().Format(http.TimeFormat)
	if notModified(c.Request, info.ModTime()) {
		c.Header("Last-Modified", lastModified)
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("Content-Type", res.ContentType)
	c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
	c.Header("Last-Modified", lastModified)
	c.Status(http.StatusOK)

	if c.Request.Method == http.MethodHead {
		return
	}

	if _, err := io.CopyN(c.Writer, f, info.Size()); err != nil {
		// ヘッダー送信後のためステータスは変更できない
		log.Printf("ファイルの送信に失敗しました: %s: %v", res.Path, err)
	}
}

// fail はエラーに対応するステータスと短いテキストを応答する
func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("リクエストの処理に失敗しました: %s: %v", c.Request.URL.Path, err)
	}

	body := fmt.Sprintf("%d %s\n", status, http.StatusText(status))
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Length", strconv.Itoa(len(body)))
	c.Status(status)

	if c.Request.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(c.Writer, body)
}

// notModified は If-Modified-Since が最終更新時刻以降かどうかを判定する
func notModified(r *http.Request, modTime time.Time) bool {
	ims := r.Header.Get("If-Modified-Since")
	if ims == "" || modTime.IsZero() {
		return false
	}
	t, err := http.ParseTime(ims)
	if err != nil {
		return false
	}
	return !modTime.Truncate(time.Second).After(t)
}

// statError はファイルシステムのエラーを ErrNotFound かIOエラーに分類する
func statError(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("ファイルへのアクセスに失敗: %w", err)
}
