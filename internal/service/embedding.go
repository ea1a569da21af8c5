package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// recipeEmbeddingDims matches the vector(3) column on recipes.
const recipeEmbeddingDims = 3

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// GenerateEmbedding maps recipe text onto a small deterministic vector so
// name search can order similar recipes by distance without an external
// model. The dimensions are byte length, vowel count and consonant count
// of the lowercased text.
func GenerateEmbedding(text string) pgvector.Vector {
	lowered := strings.ToLower(text)
	dims := make([]float32, recipeEmbeddingDims)
	dims[0] = float32(len(lowered))
	for _, r := range lowered {
		switch {
		case isVowel(r):
			dims[1]++
		case r >= 'a' && r <= 'z':
			dims[2]++
		}
	}
	return pgvector.NewVector(dims)
}
