// Package contenttype はファイル拡張子からMIMEタイプを決定する。
//
// # 責務
// - 固定の拡張子テーブルによるMIMEタイプの解決
// - リクエストパスからの拡張子の抽出
//
// # 仕様
//   - テーブルはプロセス起動時に一度だけ構築され、以後変更されない
//   - 拡張子の照合は大文字小文字を区別しない
//   - テーブルにない拡張子は常に application/octet-stream になる
//   - OSのMIMEデータベースは参照しない（.js/.mjs を確実に application/javascript で返すため）
package contenttype
