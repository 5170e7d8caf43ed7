package htmldoc

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Markdown converts the rendered document to Markdown.
func (d *Document) Markdown() (string, error) {
	md, err := mdConverter.ConvertString(d.String())
	if err != nil {
		return "", fmt.Errorf("htmldoc: markdown: %w", err)
	}
	return md, nil
}
