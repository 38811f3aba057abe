package analysis

import (
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
)

const (
	defaultTopicCount = 5
	topicLabelWords   = 3
)

// UnknownTopic is assigned when a review has no usable text or the corpus
// is too small to model.
const UnknownTopic = "unknown"

// AssignTopics fits an LDA model over the review corpus and labels every
// document with the top words of its dominant topic. Reviews whose text
// preprocesses to nothing get UnknownTopic. The corpus is refit on every
// call; topic labels are only stable within one batch, which is fine
// because ingest rewrites all topic assignments for the product.
func AssignTopics(texts []string) []string {
	labels := make([]string, len(texts))
	for i := range labels {
		labels[i] = UnknownTopic
	}

	docs := make([]string, 0, len(texts))
	docIdx := make([]int, 0, len(texts))
	for i, t := range texts {
		if p := Preprocess(t); p != "" {
			docs = append(docs, p)
			docIdx = append(docIdx, i)
		}
	}
	if len(docs) < 2 {
		return labels
	}

	k := defaultTopicCount
	if len(docs) < k {
		k = len(docs)
	}

	vectoriser := nlp.NewCountVectoriser()
	lda := nlp.NewLatentDirichletAllocation(k)
	pipeline := nlp.NewPipeline(vectoriser, lda)

	// topicsOverDocs is k rows by len(docs) columns.
	topicsOverDocs, err := pipeline.FitTransform(docs...)
	if err != nil {
		return labels
	}

	topicNames := topicLabels(lda, vectoriser.Vocabulary, k)

	rows, cols := topicsOverDocs.Dims()
	for j := 0; j < cols; j++ {
		best, bestVal := 0, topicsOverDocs.At(0, j)
		for i := 1; i < rows; i++ {
			if v := topicsOverDocs.At(i, j); v > bestVal {
				best, bestVal = i, v
			}
		}
		labels[docIdx[j]] = topicNames[best]
	}
	return labels
}

// topicLabels names each topic by its highest-weighted vocabulary words.
func topicLabels(lda *nlp.LatentDirichletAllocation, vocab map[string]int, k int) []string {
	words := make([]string, len(vocab))
	for w, idx := range vocab {
		words[idx] = w
	}

	components := lda.Components()
	_, vocabSize := components.Dims()

	names := make([]string, k)
	for t := 0; t < k; t++ {
		type weighted struct {
			word   string
			weight float64
		}
		ranked := make([]weighted, 0, vocabSize)
		for w := 0; w < vocabSize; w++ {
			ranked = append(ranked, weighted{word: words[w], weight: components.At(t, w)})
		}
		sort.Slice(ranked, func(a, b int) bool { return ranked[a].weight > ranked[b].weight })

		n := topicLabelWords
		if n > len(ranked) {
			n = len(ranked)
		}
		top := make([]string, 0, n)
		for _, r := range ranked[:n] {
			top = append(top, r.word)
		}
		names[t] = strings.Join(top, " ")
		if names[t] == "" {
			names[t] = UnknownTopic
		}
	}
	return names
}
