package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/2beens/gymlog/internal/gymlog/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateOneRM(t *testing.T) {
	cases := []struct {
		weight string
		reps   int
		want   string
	}{
		{weight: "100", reps: 10, want: "133.33"},
		{weight: "120", reps: 1, want: "120.00"},
		{weight: "80", reps: 5, want: "93.33"},
		{weight: "60", reps: 15, want: "90.00"},
		{weight: "38", reps: 5, want: "44.33"},
		{weight: "0", reps: 12, want: "0.00"},
		{weight: "82.5", reps: 8, want: "104.50"},
		// exact x.xx5 values round to the even neighbour
		{weight: "0.03", reps: 5, want: "0.04"},
		{weight: "0.09", reps: 5, want: "0.10"},
		{weight: "2.25", reps: 5, want: "2.62"},
		{weight: "999.99", reps: 15, want: "1499.98"},
	}
	for _, tc := range cases {
		w, err := ledger.ParseWeight(tc.weight)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ledger.EstimateOneRM(w, tc.reps).String(), "%s x %d", tc.weight, tc.reps)
	}
}

func TestEstimateOneRM_SingleRepIdentity(t *testing.T) {
	for _, w := range []ledger.Weight{0, 1, 4999, 10000, 12345, ledger.MaxWeight} {
		assert.Equal(t, w, ledger.EstimateOneRM(w, 1))
	}
}

func TestEstimateOneRM_StrictlyIncreasingInWeight(t *testing.T) {
	for reps := 1; reps <= 30; reps++ {
		prev := ledger.EstimateOneRM(0, reps)
		for w := ledger.Weight(1); w <= 30000; w++ {
			cur := ledger.EstimateOneRM(w, reps)
			if cur <= prev {
				t.Fatalf("weight %s reps %d: %s not greater than %s", w, reps, cur, prev)
			}
			prev = cur
		}
	}
}

func TestParseWeight(t *testing.T) {
	cases := []struct {
		in      string
		want    ledger.Weight
		wantErr string
	}{
		{in: "80", want: 8000},
		{in: "82.5", want: 8250},
		{in: "82.55", want: 8255},
		{in: "82.550", want: 8255},
		{in: " 7.05 ", want: 705},
		{in: ".5", want: 50},
		{in: "5.", want: 500},
		{in: "+12", want: 1200},
		{in: "-3", want: -300},
		{in: "82.555", wantErr: "must have at most 2 decimal places"},
		{in: "", wantErr: "must be a number"},
		{in: ".", wantErr: "must be a number"},
		{in: "abc", wantErr: "must be a number"},
		{in: "1e3", wantErr: "must be a number"},
		{in: "1.2.3", wantErr: "must be a number"},
		{in: "99999999999999999999", wantErr: "must be at most 9999.99"},
		{in: "9999.99", want: 999999},
		{in: "0009999.99", want: 999999},
		{in: "-0", want: 0},
		{in: "10000", wantErr: "must be at most 9999.99"},
		{in: "9999.991", wantErr: "must have at most 2 decimal places"},
		{in: "-10000", wantErr: "must be at least 0"},
		{in: "-99999999999", wantErr: "must be at least 0"},
		{in: "-99999999999999999999", wantErr: "must be at least 0"},
	}
	for _, tc := range cases {
		got, err := ledger.ParseWeight(tc.in)
		if tc.wantErr != "" {
			assert.EqualError(t, err, tc.wantErr, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestWeight_String(t *testing.T) {
	assert.Equal(t, "0.00", ledger.Weight(0).String())
	assert.Equal(t, "0.05", ledger.Weight(5).String())
	assert.Equal(t, "133.33", ledger.Weight(13333).String())
	assert.Equal(t, "-1.50", ledger.Weight(-150).String())
	assert.InDelta(t, 133.33, ledger.Weight(13333).Kilos(), 0.0001)
}

func TestWeight_JSON(t *testing.T) {
	body, err := json.Marshal(struct {
		W ledger.Weight  `json:"w"`
		P *ledger.Weight `json:"p"`
	}{W: 9000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"w":90.00,"p":null}`, string(body))

	var decoded struct {
		A ledger.Weight `json:"a"`
		B ledger.Weight `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":82.5,"b":"100"}`), &decoded))
	assert.Equal(t, ledger.Weight(8250), decoded.A)
	assert.Equal(t, ledger.Weight(10000), decoded.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a":1.001}`), &decoded))
}
