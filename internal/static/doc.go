// Package static はリクエストパスをドキュメントルート配下のファイルに対応付けて配信する。
//
// # 責務
//   - パーセントデコード済みパスの正規化とディレクトリトラバーサルの拒否
//   - ディレクトリに対するインデックスファイルの解決
//   - GET/HEAD リクエストへのファイル内容の応答
//
// # 仕様
//   - ルートより上に出るパスは ErrForbidden (403)
//   - 存在しないパス・通常ファイル以外は ErrNotFound (404)
//   - それ以外のファイルシステムエラーは 500
//   - ファイル内容はリクエスト毎に読み直す（キャッシュしない）
//   - ディレクトリの一覧表示は行わない
package static
