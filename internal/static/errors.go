package static

import (
	"errors"
	"net/http"
)

var (
	// ErrForbidden はパスがドキュメントルートの外を指す場合に返される
	ErrForbidden = errors.New("ドキュメントルート外へのアクセスです")
	// ErrNotFound はパスが存在しない、または通常ファイルでない場合に返される
	ErrNotFound = errors.New("ファイルが見つかりません")
)

// StatusCode はエラーに対応するHTTPステータスコードを返す
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
