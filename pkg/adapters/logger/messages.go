package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Session
		"Opened %s: %d frames at %.3f fps, %dx%d": "%s を開きました: %d フレーム, %.3f fps, %dx%d",
		"Closed %s":                    "%s を閉じました",
		"Moved to frame %d (%s)":       "フレーム %d (%s) に移動しました",
		"Time text rejected: %v":       "時間の入力が不正です: %v",
		"Frame %d could not be shown: %v": "フレーム %d を表示できませんでした: %v",

		// Source backends
		"Using %s backend for %s":      "%s バックエンドで %s を開きます",
		"%s backend failed for %s, falling back to ffmpeg: %v": "%s バックエンドで %s を開けませんでした。ffmpeg に切り替えます: %v",
		"Running %s %v":                "%s %v を実行中",
		"Decoded frame %d in %s":       "フレーム %d をデコードしました (%s)",

		// Export
		"Exported frame %d (%s) to %s": "フレーム %d (%s) を %s に書き出しました",
		"Export to %s failed: %v":      "%s への書き出しに失敗しました: %v",
		"Directory sync skipped: %v":   "ディレクトリの同期をスキップしました: %v",

		// CLI
		"Loaded config from %s":        "%s から設定を読み込みました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
	})
}
