package summarizer

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Video: %s | Duration: %s | Resolution: %dx%d": "動画: %s | 長さ: %s | 解像度: %dx%d",
		"Video Summary": "動画の概要",
		"Item":          "項目",
		"Value":         "値",
		"File":          "ファイル",
		"File size":     "ファイルサイズ",
		"Codec":         "コーデック",
		"Resolution":    "解像度",
		"Frame rate":    "フレームレート",
		"Frames":        "フレーム数",
		"Duration":      "長さ",
		"Backend":       "バックエンド",
		"Generated":     "生成日時",
	})
}
