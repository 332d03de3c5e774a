package contenttype

import (
	"path"
	"strings"
)

// DefaultType はテーブルに一致しない拡張子に使うMIMEタイプ
const DefaultType = "application/octet-stream"

// entry は拡張子とMIMEタイプの組
type entry struct {
	ext      string // 先頭のドットを含む小文字の拡張子（"" は拡張子なし）
	mimeType string
}

// table は固定のMIMEテーブル。順序は Extensions の戻り値の順序になる
var table = []entry{
	{"", DefaultType},
	{".html", "text/html"},
	{".css", "text/css"},
	{".js", "application/javascript"},
	{".mjs", "application/javascript"},
	{".json", "application/json"},
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
	{".gif", "image/gif"},
	{".svg", "image/svg+xml"},
	{".ico", "image/x-icon"},
}

// Resolver は拡張子からMIMEタイプを解決する
//
// 構築後は読み取り専用のため、複数のゴルーチンから同時に利用できる。
type Resolver struct {
	types map[string]string
	order []string
}

// NewResolver は固定テーブルから Resolver を作成する
func NewResolver() *Resolver {
	r := &Resolver{
		types: make(map[string]string, len(table)),
		order: make([]string, 0, len(table)),
	}
	for _, e := range table {
		r.types[e.ext] = e.mimeType
		r.order = append(r.order, e.ext)
	}
	return r
}

// Resolve は拡張子（先頭のドットを含む）に対応するMIMEタイプを返す
func (r *Resolver) Resolve(ext string) string {
	if t, ok := r.types[strings.ToLower(ext)]; ok {
		return t
	}
	return DefaultType
}

// ResolvePath はパスの最終要素の拡張子からMIMEタイプを返す
func (r *Resolver) ResolvePath(name string) string {
	return r.Resolve(Extension(name))
}

// Extensions はテーブルに登録された拡張子をテーブル順に返す
func (r *Resolver) Extensions() []string {
	exts := make([]string, len(r.order))
	copy(exts, r.order)
	return exts
}

// Extension はスラッシュ区切りパスの最終要素から、最後の "." 以降を返す。
// 最終要素に "." が含まれない場合は空文字列を返す。
func Extension(name string) string {
	return path.Ext(name)
}
