package session

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Done":                            "完了",
		"Error":                           "エラー",
		"Image saved to %s (%s)":          "画像が保存されました: %s (%s)",
		"Image copied to the clipboard":   "画像がクリップボードにコピーされました",
		"Enter a valid number of seconds": "有効な秒数を入力してください",
		"Open a video first":              "先に動画を開いてください",
		"Failed to open the video: %v":    "動画を開けませんでした: %v",
		"Failed to read the frame: %v":    "フレームを読み込めませんでした: %v",
		"Failed to save the image: %v":    "画像の保存に失敗しました: %v",
		"Copying to the clipboard is only supported on Windows": "クリップボードへのコピーは Windows でのみ利用できます",
	})
}
