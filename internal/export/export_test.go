package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonhe/shadow/internal/metrics"
	"github.com/tonhe/shadow/internal/sparkline"
)

var seen = time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)

func testUsers() []metrics.User {
	return []metrics.User{
		{ID: 1, Email: "plain@example.com", StreakDays: 4, LastSeen: seen, CurrentRank: 2,
			Segments: []string{"power", "streaker"}, ActivityScore: 12.5, ChurnRisk: 0.1},
		{ID: 2, Email: "comma,\"quoted\"@example.com", LastSeen: seen, CurrentRank: 1,
			Segments: []string{}, ActivityScore: 0.2, ChurnRisk: 0.95},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)

	assert.Equal(t, "users-20260501-083000.parquet", FileName(FormatParquet, seen))
}

func TestWriteUsersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUsersCSV(&buf, testUsers()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, usersHeader, recs[0])
	assert.Equal(t, []string{"1", "plain@example.com", "4", "2026-05-01T08:30:00Z", "2",
		"power;streaker", "12.50", "0.10", "low"}, recs[1])
	assert.Equal(t, "comma,\"quoted\"@example.com", recs[2][1])
	assert.Equal(t, "high", recs[2][8])
}

func TestWriteInsightsCSV(t *testing.T) {
	in := metrics.Insights{
		Events:   map[metrics.EventType]int{metrics.EventLogin: 3, metrics.EventPurchase: 1},
		ChurnTop: testUsers()[1:],
	}
	var buf bytes.Buffer
	require.NoError(t, WriteInsightsCSV(&buf, in))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 1+len(metrics.AllEventTypes)+1+1)
	assert.Equal(t, []string{"events", "login", "3"}, recs[1])
	assert.Equal(t, []string{"events", "total", "4"}, recs[5])
	assert.Equal(t, "churn_risk_top", recs[6][0])
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteInsightsCSVWriteError(t *testing.T) {
	boom := errors.New("disk full")
	in := metrics.Insights{Events: map[metrics.EventType]int{metrics.EventView: 2}}
	for i := 0; i < 200; i++ {
		in.ChurnTop = append(in.ChurnTop, metrics.User{
			Email:     strings.Repeat("x", 40) + "@example.com",
			ChurnRisk: 0.5,
		})
	}
	assert.ErrorIs(t, WriteInsightsCSV(failingWriter{boom}, in), boom)

	small := metrics.Insights{Events: map[metrics.EventType]int{}}
	assert.ErrorIs(t, WriteInsightsCSV(failingWriter{boom}, small), boom)
}

func TestWriteUsersJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUsersJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteUsersJSON(&buf, testUsers()))
	var back []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 2)
	assert.Equal(t, "plain@example.com", back[0]["email"])
	assert.Equal(t, 0.95, back[1]["churn_risk"])
}

func TestWriteParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "users.parquet")
	require.NoError(t, Write(FormatParquet, path, testUsers()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[UserRow](file)
	defer reader.Close()

	rows := make([]UserRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, "power;streaker", rows[0].Segments)
	assert.Equal(t, 0.95, rows[1].ChurnRisk)
	assert.True(t, rows[0].LastSeen.Equal(seen))
}

func TestWriteCreatesCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, Write(FormatCSV, path, testUsers()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,email,"))

	err = Write(Format("xml"), filepath.Join(t.TempDir(), "users.xml"), nil)
	assert.Error(t, err)
}

func TestWriteSparklineSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSparklineSVG(&buf, []float64{1, 2}, sparkline.SVGOptions{}))
	out := buf.String()
	assert.True(t, strings.Contains(out, `d="M1,13 L89,1"`), out)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}
