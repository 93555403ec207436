package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToHTML(t *testing.T) {
	html, err := ConvertMarkdownToHTML("# Title\n\nhello **world**<script>alert(1)</script>")
	require.NoError(t, err)
	require.Contains(t, html, ">Title</h1>")
	require.Contains(t, html, "<strong>world</strong>")
	require.NotContains(t, html, "<script>")

	_, err = ConvertMarkdownToHTML("   ")
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestConvertHTMLToMarkdown(t *testing.T) {
	out, err := ConvertHTMLToMarkdown("<p>Hello <strong>Go</strong></p>")
	require.NoError(t, err)
	require.Contains(t, out, "Hello **Go**")
}

func TestHTMLToText(t *testing.T) {
	require.Equal(t, "Breaking news today", HTMLToText("<p>Breaking <b>news</b>\n today</p><script>x()</script>"))
	require.Equal(t, "plain text", HTMLToText("  plain \n text "))
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<a href="https://go.dev" onclick="x()">go</a>`)
	require.Contains(t, out, `href="https://go.dev"`)
	require.NotContains(t, out, "onclick")
}
