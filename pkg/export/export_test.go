package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-siteroute/pkg/device/devicetest"
	"github.com/dd0wney/cluso-siteroute/pkg/formula"
	"github.com/dd0wney/cluso-siteroute/pkg/sitegraph"
)

var testNames = []string{"OUTMUX.O", "W_Q", "X"}

func testNamer(v formula.Var) string { return testNames[v] }

func testEntries() []Entry {
	return []Entry{
		{
			Source:   2,
			Sink:     9,
			Requires: formula.True(),
			Implies: formula.Formula{Clauses: []formula.Clause{
				formula.NewClause(formula.Lit(2, 1), formula.Lit(1, 0)),
				formula.NewClause(formula.Lit(0, 2)),
			}},
		},
		{
			Source:   0,
			Sink:     10,
			Requires: formula.Formula{Clauses: []formula.Clause{formula.NewClause(formula.Lit(0, 1))}},
			Implies:  formula.True(),
		},
	}
}

func TestEncodeTileGolden(t *testing.T) {
	data, err := EncodeTile(testEntries(), testNamer)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "tile.json", data)
}

func TestEncodeTileDefaults(t *testing.T) {
	data, err := EncodeTile(testEntries()[1:], nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"0": 1`)

	empty, err := EncodeTile(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(empty))
}

func TestEncodeTileRejectsFalse(t *testing.T) {
	_, err := EncodeTile([]Entry{{Source: 1, Sink: 2, Requires: formula.False(), Implies: formula.True()}}, nil)
	require.ErrorIs(t, err, ErrFalseFormula)
	assert.Contains(t, err.Error(), "1->2 requires")
}

func TestSelection(t *testing.T) {
	s := NewSelection("CLB", "IOI")
	assert.True(t, s.Contains("CLB"))
	assert.False(t, s.Contains("BRAM"))
	assert.False(t, s.IsAll())
	assert.False(t, s.Empty())
	assert.Equal(t, []string{"CLB", "IOI"}, s.Names())
	assert.Equal(t, []string{"IOI"}, s.Unknown([]string{"CLB"}))

	all := NewSelection(All)
	assert.True(t, all.Contains("anything"))
	assert.True(t, all.IsAll())
	assert.Empty(t, all.Unknown(nil))

	assert.True(t, NewSelection().Empty())
}

func TestWriteTileDot(t *testing.T) {
	dev := devicetest.Toy()
	g, err := sitegraph.Build(devicetest.MustSiteType(dev, "SLICE"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTileDot(&buf, "CLB", []DotSite{
		{Label: "SLICE[0]", Graph: g},
		{Label: "SLICE[1]", Graph: g},
	}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "// routing graph of tile type CLB\ndigraph \"CLB\" {"))
	assert.Contains(t, out, "subgraph cluster_s0_ {")
	assert.Contains(t, out, "subgraph cluster_s1_ {")
	assert.Contains(t, out, `label = "SLICE[1]";`)
	assert.Contains(t, out, "s1_n0 -> s1_n11")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := DirSink{Dir: dir}
	require.NoError(t, sink.Put(context.Background(), "a/CLB.json", []byte("{}")))

	data, err := os.ReadFile(filepath.Join(dir, "a", "CLB.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Put(ctx, "x", nil), context.Canceled)
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	sink := S3Sink{Client: client, Bucket: "bucket", Prefix: "runs/1"}

	require.NoError(t, sink.Put(context.Background(), "CLB.json", []byte("{}")))
	assert.Equal(t, []byte("{}"), client.objects["bucket/runs/1/CLB.json"])
	assert.Equal(t, "application/json", client.types["bucket/runs/1/CLB.json"])
	assert.Equal(t, "s3://bucket/runs/1/CLB.json", sink.Location("CLB.json"))

	client.err = errors.New("denied")
	err := sink.Put(context.Background(), "CLB.dot", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://bucket/runs/1/CLB.dot")
}

func TestParseS3Location(t *testing.T) {
	tests := []struct {
		in             string
		bucket, prefix string
		ok             bool
	}{
		{"s3://bucket", "bucket", "", true},
		{"s3://bucket/a/b/", "bucket", "a/b", true},
		{"s3://", "", "", false},
		{"out/dir", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, p, ok := ParseS3Location(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, b)
			assert.Equal(t, tt.prefix, p)
		})
	}
}

func TestOpenSinkDirectory(t *testing.T) {
	sink, err := OpenSink(context.Background(), "out", S3Options{})
	require.NoError(t, err)
	assert.Equal(t, DirSink{Dir: "out"}, sink)

	_, err = OpenSink(context.Background(), "s3://", S3Options{})
	assert.Error(t, err)
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{Format: FormatJSON, Prefix: "route_", Selection: NewSelection("CLB"), Sink: DirSink{Dir: dir}}

	loc, err := e.Export(context.Background(), Tile{Name: "IOI"})
	require.NoError(t, err)
	assert.Empty(t, loc)

	loc, err = e.Export(context.Background(), Tile{Name: "CLB", Entries: testEntries(), VarName: testNamer})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "route_CLB.json"), loc)
	_, err = os.Stat(loc)
	require.NoError(t, err)

	var nilExporter *Exporter
	assert.False(t, nilExporter.Wants("CLB"))

	bad := &Exporter{Format: "xml", Selection: NewSelection(All), Sink: DirSink{Dir: dir}}
	_, err = bad.Export(context.Background(), Tile{Name: "CLB"})
	assert.Error(t, err)
}
