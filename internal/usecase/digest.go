package usecase

import (
	"fmt"
	"strings"

	"VeloDigest/internal/domain"
)

// BuildDigest formats the top ranked stories as a Markdown digest for the
// notifier channel.
func BuildDigest(articles []domain.Article, top int) string {
	if len(articles) == 0 {
		return ""
	}
	if top > 0 && len(articles) > top {
		articles = articles[:top]
	}

	var b strings.Builder
	b.WriteString("*Cycling news digest*\n\n")
	for _, article := range articles {
		fmt.Fprintf(&b, "- *%s*\n%s · %s\n%s\n\n",
			article.Title,
			article.Category,
			article.Date,
			article.URL)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
