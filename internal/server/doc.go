// Package server は静的ファイルを配信するHTTPサーバーを管理します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、
// シグナルによる停止、リクエストのログ出力を担当します。
//
// 責務:
//   - 待ち受けポートのバインドと起動メッセージの表示
//   - GET/HEAD リクエストの static.Handler への振り分け
//   - SIGINT/SIGTERM を受けたグレースフルシャットダウン
//   - リクエスト毎のアクセスログ
//
// 仕様:
//   - HTTPエンジンは gin を使用
//   - リクエスト処理のエラーでサーバーは停止しない
//   - 起動時のエラー（バインド失敗など）は StartupError として返す
package server
