package schema_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvkb/plsschema/pkg/plserrors"
	"github.com/dhruvkb/plsschema/pkg/schema"
)

var testDataDir string

func init() {
	//nolint:dogsled
	_, filename, _, _ := runtime.Caller(0)
	testDataDir = filepath.Join(filepath.Dir(filename), "testdata")
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err   error
		input string
	}{
		"mapping": {
			input: "$id: a.yml\ntype: object\n",
		},
		"empty": {
			input: "",
			err:   plserrors.ErrInvalidDocument,
		},
		"comment only": {
			input: "# nothing here\n",
			err:   plserrors.ErrInvalidDocument,
		},
		"null document": {
			input: "---\n",
			err:   plserrors.ErrInvalidDocument,
		},
		"sequence root": {
			input: "- a\n- b\n",
			err:   plserrors.ErrInvalidDocument,
		},
		"scalar root": {
			input: "hello\n",
			err:   plserrors.ErrInvalidDocument,
		},
		"multiple documents": {
			input: "a: 1\n---\nb: 2\n",
			err:   plserrors.ErrInvalidDocument,
		},
		"malformed": {
			input: "a: [1, 2\n",
			err:   plserrors.ErrDecodeYAML,
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := schema.Decode([]byte(tc.input))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.Nil(t, doc)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, doc)
		})
	}
}

func TestDocumentID(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err   error
		input string
		want  string
	}{
		"string": {
			input: "$id: https://example.com/pls_config.yml\n",
			want:  "https://example.com/pls_config.yml",
		},
		"quoted": {
			input: "\"$id\": 'https://example.com/pls_config.yml'\n",
			want:  "https://example.com/pls_config.yml",
		},
		"alias": {
			input: "x: &id https://example.com/a.yml\n$id: *id\n",
			want:  "https://example.com/a.yml",
		},
		"merged": {
			input: "base: &b\n  $id: a.yml\n<<: *b\n",
			want:  "a.yml",
		},
		"explicit wins over merged": {
			input: "base: &b\n  $id: a.yml\n<<: *b\n$id: b.yml\n",
			want:  "b.yml",
		},
		"first merged source wins": {
			input: "x: &x\n  $id: x.yml\ny: &y\n  $id: y.yml\n<<: [*x, *y]\n",
			want:  "x.yml",
		},
		"missing": {
			input: "type: object\n",
			err:   plserrors.ErrMissingID,
		},
		"number": {
			input: "$id: 42\n",
			err:   plserrors.ErrMissingID,
		},
		"mapping": {
			input: "$id:\n  a: b\n",
			err:   plserrors.ErrMissingID,
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := schema.Decode([]byte(tc.input))
			require.NoError(t, err)

			got, err := doc.ID()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRewriteIDSuffix(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		id   string
		want string
	}{
		"yml suffix": {
			id:   "https://example.com/pls_config.yml",
			want: "https://example.com/pls_config.json",
		},
		"only the trailing suffix": {
			id:   "https://example.yml/pls.yml.d/pls_config.yml",
			want: "https://example.yml/pls.yml.d/pls_config.json",
		},
		"yaml suffix": {
			id:   "https://example.com/pls_config.yaml",
			want: "https://example.com/pls_config.yaml",
		},
		"already json": {
			id:   "https://example.com/pls_config.json",
			want: "https://example.com/pls_config.json",
		},
		"no extension": {
			id:   "urn:pls:config",
			want: "urn:pls:config",
		},
		"suffix without dot": {
			id:   "https://example.com/pls_configyml",
			want: "https://example.com/pls_configyml",
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := schema.Decode([]byte("$id: " + tc.id + "\n"))
			require.NoError(t, err)

			got, err := doc.RewriteIDSuffix(".yml", ".json")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			id, err := doc.ID()
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestRewriteIDSuffixKeepsAnchorTarget(t *testing.T) {
	t.Parallel()

	doc, err := schema.Decode([]byte("$id: &id a.yml\nother: *id\n"))
	require.NoError(t, err)

	_, err = doc.RewriteIDSuffix(".yml", ".json")
	require.NoError(t, err)

	got, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"$id": "a.json", "other": "a.yml"}`, string(got))
}

func TestRewriteIDSuffixMerged(t *testing.T) {
	t.Parallel()

	doc, err := schema.Decode([]byte("base: &b\n  $id: a.yml\n  type: object\n<<: *b\n"))
	require.NoError(t, err)

	got, err := doc.RewriteIDSuffix(".yml", ".json")
	require.NoError(t, err)
	assert.Equal(t, "a.json", got)

	b, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"base":{"$id":"a.yml","type":"object"},"$id":"a.json","type":"object"}`, string(b))
}

func TestSetIDAppends(t *testing.T) {
	t.Parallel()

	doc, err := schema.Decode([]byte("type: object\n"))
	require.NoError(t, err)

	doc.SetID("urn:x")

	got, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object","$id":"urn:x"}`, string(got))
}

func TestMarshalIndentJSON(t *testing.T) {
	t.Parallel()

	t.Run("example", func(t *testing.T) {
		t.Parallel()

		doc, err := schema.Decode([]byte("$id: https://example.com/pls_config.yml\ntype: object\n"))
		require.NoError(t, err)

		_, err = doc.RewriteIDSuffix(".yml", ".json")
		require.NoError(t, err)

		got, err := doc.MarshalIndentJSON("  ")
		require.NoError(t, err)

		want := "{\n  \"$id\": \"https://example.com/pls_config.json\",\n  \"type\": \"object\"\n}"
		assert.Equal(t, want, string(got))
	})

	t.Run("nested", func(t *testing.T) {
		t.Parallel()

		doc, err := schema.Decode([]byte("a: []\nb: {}\nc: [1, {x: \"<y> & z\"}]\n"))
		require.NoError(t, err)

		got, err := doc.MarshalIndentJSON("  ")
		require.NoError(t, err)

		want := `{
  "a": [],
  "b": {},
  "c": [
    1,
    {
      "x": "<y> & z"
    }
  ]
}`
		assert.Equal(t, want, string(got))
	})

	t.Run("fixture", func(t *testing.T) {
		t.Parallel()

		input, err := os.ReadFile(filepath.Join(testDataDir, "pls_config.yml"))
		require.NoError(t, err)

		want, err := os.ReadFile(filepath.Join(testDataDir, "pls_config.json"))
		require.NoError(t, err)

		doc, err := schema.Decode(input)
		require.NoError(t, err)

		_, err = doc.RewriteIDSuffix(".yml", ".json")
		require.NoError(t, err)

		got, err := doc.MarshalIndentJSON("  ")
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	})
}

func TestMarshalJSONValues(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"key order": {
			input: "z: 1\na: 2\nm: 3\n",
			want:  `{"z":1,"a":2,"m":3}`,
		},
		"scalars": {
			input: "s: text\nq: \"123\"\ni: 42\nn: -7\nf: 1.5\nb: true\nnil: null\ntilde: ~\n",
			want:  `{"s":"text","q":"123","i":42,"n":-7,"f":1.5,"b":true,"nil":null,"tilde":null}`,
		},
		"html is not escaped": {
			input: "d: <bold> & <red>\n",
			want:  `{"d":"<bold> & <red>"}`,
		},
		"nested html is not escaped": {
			input: "d: \"<b> & x\"\nn: {k: \"<i>\"}\n",
			want:  `{"d":"<b> & x","n":{"k":"<i>"}}`,
		},
		"string escapes": {
			input: "s: \"a\\u2028b\\tc\\u0001\"\nq: 'say \"hi\" \\ back'\n",
			want:  "{\"s\":\"a\u2028b\\tc\\u0001\",\"q\":\"say \\\"hi\\\" \\\\ back\"}",
		},
		"number formatting": {
			input: "a: 1e-7\nb: 1.5e+21\nc: -0.0\nd: 0.000001\ne: 1.0\nf: 100.0\ng: 1e+21\nh: 123456789012345680000.0\n",
			want:  `{"a":1e-7,"b":1.5e+21,"c":0,"d":0.000001,"e":1,"f":100,"g":1e+21,"h":123456789012345680000}`,
		},
		"special floats": {
			input: "a: .nan\nb: .inf\nc: -.inf\n",
			want:  `{"a":null,"b":null,"c":null}`,
		},
		"timestamp": {
			input: "t: 2001-12-14t21:59:43.10-05:00\n",
			want:  `{"t":"2001-12-15T02:59:43.100Z"}`,
		},
		"quoted timestamp": {
			input: "t: \"2001-12-14\"\n",
			want:  `{"t":"2001-12-14"}`,
		},
		"empty collections": {
			input: "o: {}\na: []\n",
			want:  `{"o":{},"a":[]}`,
		},
		"non-string keys": {
			input: "1: one\ntrue: x\n",
			want:  `{"1":"one","true":"x"}`,
		},
		"merge": {
			input: "base: &b\n  x: 1\n  y: 2\nchild:\n  y: 3\n  <<: *b\n  z: 4\n",
			want:  `{"base":{"x":1,"y":2},"child":{"y":3,"x":1,"z":4}}`,
		},
		"merge overridden later": {
			input: "base: &b\n  x: 1\nchild:\n  <<: *b\n  x: 2\n",
			want:  `{"base":{"x":1},"child":{"x":2}}`,
		},
		"merge sequence": {
			input: "a: &a\n  k: a\nb: &b\n  k: b\n  j: b\nc:\n  <<: [*a, *b]\n",
			want:  `{"a":{"k":"a"},"b":{"k":"b","j":"b"},"c":{"k":"a","j":"b"}}`,
		},
		"nested alias": {
			input: "s: &s\n  type: string\np:\n  - *s\n  - *s\n",
			want:  `{"s":{"type":"string"},"p":[{"type":"string"},{"type":"string"}]}`,
		},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := schema.Decode([]byte(tc.input))
			require.NoError(t, err)

			got, err := doc.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestMarshalJSONDuplicateKey(t *testing.T) {
	t.Parallel()

	// Decoding into a node tree keeps both pairs; conversion rejects them.
	doc, err := schema.Decode([]byte("a: 1\na: 2\n"))
	require.NoError(t, err)

	_, err = doc.MarshalJSON()
	require.ErrorIs(t, err, plserrors.ErrInvalidDocument)
}
