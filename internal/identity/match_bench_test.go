package identity

import (
	"fmt"
	"testing"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// searchPage mimics a full page of search results with several names each.
func searchPage(n int) []catalog.Payload {
	out := make([]catalog.Payload, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, catalog.Payload{
			Source: models.SourceAniList,
			Entity: models.EntityAnime,
			ID:     fmt.Sprint(i + 1),
			Names: []string{
				fmt.Sprintf("Shingeki no Kyojin Season %d", i+1),
				fmt.Sprintf("Attack on Titan Season %d", i+1),
				fmt.Sprintf("進撃の巨人 Season %d", i+1),
			},
		})
	}
	return out
}

func BenchmarkBestMatchNoExact(b *testing.B) {
	names := []string{"Attack on Titan: The Final Season", "Shingeki no Kyojin: The Final Season"}
	candidates := searchPage(10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if m := bestMatch(names, candidates, 0.6); m.exact {
			b.Fatal("unexpected exact match")
		}
	}
}

func BenchmarkNormalize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = normalize("ＦＵＬＬＭＥＴＡＬ Alchemist: Brotherhood!")
	}
}
