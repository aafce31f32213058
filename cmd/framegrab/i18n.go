package main

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Error: %v":                          "エラー: %v",
		"Exactly one video path is required": "動画のパスを 1 つ指定してください",
		"Unsupported image format: %s":       "未対応の画像形式です: %s",
		"Summary written to %s":              "サマリーを %s に書き出しました",
		"Preview at %s":                      "%s のプレビュー",

		// Shell
		"Time field: %s":                                    "時間: %s",
		"Position: %.3f / %.3f":                             "位置: %.3f / %.3f",
		"No video loaded":                                   "動画が読み込まれていません",
		"Frame %d of %d":                                    "フレーム %d / %d",
		"Usage: %s":                                         "使い方: %s",
		"Unknown command: %s":                               "不明なコマンドです: %s",
		"Commands:":                                         "コマンド:",
		"Open a video file":                                 "動画ファイルを開く",
		"Move the scrubber":                                 "スクラバーを動かす",
		"Type into the time field":                          "時間を入力する",
		"Seek to the typed time":                            "入力した時間に移動する",
		"Save the frame at the typed time":                  "入力した時間のフレームを保存する",
		"Copy the frame at the typed time to the clipboard": "入力した時間のフレームをクリップボードにコピーする",
		"Show the current state":                            "現在の状態を表示する",
		"Leave the shell":                                   "シェルを終了する",
	})
}
