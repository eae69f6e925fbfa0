package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind ExpressionKind
	}{
		{"empty is any", "", AnyKind},
		{"plus is any", "+", AnyKind},
		{"zero plus is any", "0+", AnyKind},
		{"trailing plus is atLeast", "11+", AtLeastKind},
		{"plain is exact", "17.0.3", ExactKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := ParseExpression(tt.in)
			assert.Equal(t, tt.kind, expr.Kind)
		})
	}
}

func TestParseExpressionRoundTrip(t *testing.T) {
	for _, raw := range []string{"", "17.0.3", "11+", "1.8.0_352"} {
		expr := ParseExpression(raw)
		again := ParseExpression(expr.String())
		assert.Equal(t, expr.Kind, again.Kind, "kind round-trips for %q", raw)
		if expr.Kind != AnyKind {
			assert.Equal(t, expr.Value.Raw, again.Value.Raw, "value round-trips for %q", raw)
		}
	}
}

func TestCompareReflexiveAndTotalOrder(t *testing.T) {
	versions := []string{"1.8.0_352", "11.0.2", "17.0.3+7", "17.0.3+8", "22.3.3"}
	for _, v := range versions {
		require.Equal(t, Equal, Compare(Parse(v), Parse(v), "temurin"), "compare(%s,%s) should be eq", v, v)
	}

	for i := 0; i < len(versions); i++ {
		for j := i + 1; j < len(versions); j++ {
			a, b := Parse(versions[i]), Parse(versions[j])
			require.Equal(t, Less, Compare(a, b, "temurin"))
			require.Equal(t, Greater, Compare(b, a, "temurin"))
		}
	}
}

func TestCompareDashDotInterchangeable(t *testing.T) {
	a := Parse("17.0.3+7")
	b := Parse("17-0-3+7")
	assert.Equal(t, Equal, Compare(a, b, "temurin"))
}

func TestCompareShorterIsLess(t *testing.T) {
	assert.Equal(t, Less, Compare(Parse("17"), Parse("17.0"), "temurin"))
}

func TestStripLeadingOneUnlessGraalvm(t *testing.T) {
	// adoptium:1.8 and adoptium:8 resolve the same way.
	assert.Equal(t, Equal, Compare(Parse("1.8.0"), Parse("8.0"), "adoptium"))

	// graalvm is exempt from the 1.-strip, so 1.22 and 22 differ.
	assert.NotEqual(t, Equal, Compare(Parse("1.22"), Parse("22"), "graalvm-java17"))
}

func TestMatchesExact(t *testing.T) {
	expr := ParseExpression("8")
	assert.True(t, Matches(expr, "1.8.0_352", "adoptium"), "1.8.0_352 should satisfy exact(8) under adoptium")
	assert.False(t, Matches(expr, "9.0.1", "adoptium"))

	graal := ParseExpression("22")
	assert.False(t, Matches(graal, "1.22", "graalvm-java17"), "graalvm is exempt from the 1.-strip")
	assert.True(t, Matches(graal, "22.3.3", "graalvm-java17"))
}

func TestMatchesAtLeast(t *testing.T) {
	expr := ParseExpression("11+")
	assert.True(t, Matches(expr, "11.0.0", "temurin"))
	assert.True(t, Matches(expr, "17.0.3", "temurin"))
	assert.False(t, Matches(expr, "8.0.0", "temurin"))
}

func TestMatchesAny(t *testing.T) {
	for _, raw := range []string{"", "0+", "+"} {
		expr := ParseExpression(raw)
		assert.True(t, Matches(expr, "1.8.0_352", "temurin"))
		assert.True(t, Matches(expr, "", "temurin"))
	}
}

func TestParseEmptyIsLeastVersion(t *testing.T) {
	assert.Equal(t, Less, Compare(Parse(""), Parse("0"), "temurin"))
}
