package goquery_test

import (
	"testing"

	"github.com/fwojciec/linkscout/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultExtractor_ExtractResults(t *testing.T) {
	t.Parallel()

	t.Run("extracts heading anchors in document order", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<ol id="b_results">
	<li class="b_algo">
		<h2><a href="https://www.bing.com/ck/a?!&amp;&amp;p=1&amp;u=a1aHR0cHM6Ly9mb28uY29tL3BhZ2U&amp;ntb=1">Foo</a></h2>
		<div class="b_caption"><a href="https://ignored.example/caption">caption</a></div>
	</li>
	<li class="b_algo">
		<h2><a href="https://bar.org/doc">Bar</a></h2>
	</li>
</ol>
</body>
</html>`

		links, err := goquery.NewResultExtractor().ExtractResults(html)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://www.bing.com/ck/a?!&&p=1&u=a1aHR0cHM6Ly9mb28uY29tL3BhZ2U&ntb=1",
			"https://bar.org/doc",
		}, links)
	})

	t.Run("skips entries missing heading anchor or href", func(t *testing.T) {
		t.Parallel()

		html := `<ol id="b_results">
	<li class="b_algo"><div>no heading</div><a href="https://nohead.example/">x</a></li>
	<li class="b_algo"><h2>no anchor</h2></li>
	<li class="b_algo"><h2><a>no href</a></h2></li>
	<li class="b_algo"><h2><a href="  ">blank href</a></h2></li>
	<li class="b_algo"><h2><a href="https://kept.example/">kept</a></h2></li>
</ol>`

		links, err := goquery.NewResultExtractor().ExtractResults(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://kept.example/"}, links)
	})

	t.Run("ignores anchors outside result entries", func(t *testing.T) {
		t.Parallel()

		html := `<div class="b_ad"><h2><a href="https://ad.example/">Ad</a></h2></div>
<li class="b_ans"><h2><a href="https://answer.example/">Answer</a></h2></li>`

		links, err := goquery.NewResultExtractor().ExtractResults(html)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		t.Parallel()

		html := `<li class="b_algo"><h2><a href="https://dup.example/">1</a></h2></li>
<li class="b_algo"><h2><a href="https://dup.example/">2</a></h2></li>`

		links, err := goquery.NewResultExtractor().ExtractResults(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://dup.example/", "https://dup.example/"}, links)
	})

	t.Run("uses only the first anchor of the heading", func(t *testing.T) {
		t.Parallel()

		html := `<li class="b_algo extra"><h2><a href="https://first.example/">1</a><a href="https://second.example/">2</a></h2></li>`

		links, err := goquery.NewResultExtractor().ExtractResults(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://first.example/"}, links)
	})

	t.Run("empty markup yields no links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewResultExtractor().ExtractResults("")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestReadySelectors(t *testing.T) {
	t.Parallel()

	selectors := goquery.ReadySelectors()

	require.NotEmpty(t, selectors)
	assert.Equal(t, "#b_results", selectors[0])
	assert.Contains(t, selectors, "#b_captcha")

	// Callers may modify the returned slice.
	selectors[0] = "changed"
	assert.Equal(t, "#b_results", goquery.ReadySelectors()[0])
}
