package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredericlepied/lshw-normalization/internal/schema"
)

func TestDefaultClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		field string
		want  schema.Class
	}{
		"Size is numeric":              {field: "size", want: schema.Numeric},
		"Latency is numeric":           {field: "latency", want: schema.Numeric},
		"Cores is numeric":             {field: "cores", want: schema.Numeric},
		"Enabledcores is numeric":      {field: "enabledcores", want: schema.Numeric},
		"Microcode is numeric":         {field: "microcode", want: schema.Numeric},
		"Threads is numeric":           {field: "threads", want: schema.Numeric},
		"Level is numeric":             {field: "level", want: schema.Numeric},
		"Ansiversion is numeric":       {field: "ansiversion", want: schema.Numeric},
		"Capacity is numeric":          {field: "capacity", want: schema.Numeric},
		"Width is numeric":             {field: "width", want: schema.Numeric},
		"Clock is numeric":             {field: "clock", want: schema.Numeric},
		"Depth is numeric":             {field: "depth", want: schema.Numeric},
		"FATs is numeric":              {field: "FATs", want: schema.Numeric},
		"Logicalsectorsize is numeric": {field: "logicalsectorsize", want: schema.Numeric},
		"Sectorsize is numeric":        {field: "sectorsize", want: schema.Numeric},

		"Claimed is boolean":   {field: "claimed", want: schema.Boolean},
		"Disabled is boolean":  {field: "disabled", want: schema.Boolean},
		"Broadcast is boolean": {field: "broadcast", want: schema.Boolean},
		"Link is boolean":      {field: "link", want: schema.Boolean},
		"Multicast is boolean": {field: "multicast", want: schema.Boolean},
		"Slave is boolean":     {field: "slave", want: schema.Boolean},
		"Removable is boolean": {field: "removable", want: schema.Boolean},
		"Audio is boolean":     {field: "audio", want: schema.Boolean},
		"Dvd is boolean":       {field: "dvd", want: schema.Boolean},

		"Physid keeps its string":  {field: "physid", want: schema.StringKeep},
		"Version keeps its string": {field: "version", want: schema.StringKeep},

		"Logicalname is an array": {field: "logicalname", want: schema.ArrayOfString},

		"Matching is case sensitive": {field: "fats", want: schema.Unclassified},
		"Size uppercased":            {field: "Size", want: schema.Unclassified},
		"Units is not numeric":       {field: "units", want: schema.Unclassified},
		"Boot is not boolean":        {field: "boot", want: schema.Unclassified},
		"Id is structural only":      {field: "id", want: schema.Unclassified},
		"Unknown field":              {field: "mystery", want: schema.Unclassified},
	}

	table := schema.Default()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, table.Classify(tc.field), "Classification of %q does not match", tc.field)
		})
	}
}

func TestDefaultKnownField(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		field string
		want  bool
	}{
		"Classified fields are known": {field: "size", want: true},
		"Structural fields are known": {field: "id", want: true},
		"Wrapper fields are known":    {field: "hardware", want: true},
		"Units is known":              {field: "units", want: true},
		"Unknown field":               {field: "mystery", want: false},
		"Known is case sensitive":     {field: "Id", want: false},
	}

	table := schema.Default()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, table.KnownField(tc.field), "KnownField(%q) does not match", tc.field)
		})
	}
}

func TestClassStrings(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		class schema.Class

		wantString   string
		wantExpected string
	}{
		"Numeric":       {class: schema.Numeric, wantString: "numeric", wantExpected: "number"},
		"Boolean":       {class: schema.Boolean, wantString: "boolean", wantExpected: "boolean"},
		"StringKeep":    {class: schema.StringKeep, wantString: "string", wantExpected: "string"},
		"ArrayOfString": {class: schema.ArrayOfString, wantString: "array", wantExpected: "array"},
		"Unclassified":  {class: schema.Unclassified, wantString: "unclassified", wantExpected: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.wantString, tc.class.String())
			assert.Equal(t, tc.wantExpected, tc.class.ExpectedType())
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		noFile  bool

		wantErr bool
		check   func(t *testing.T, table schema.Table)
	}{
		"Valid table": {
			content: `
numeric = ["weight"]
boolean = ["active"]
string_keep = ["revision"]
array_of_string = ["alias"]
structural = ["id", "children"]
`,
			check: func(t *testing.T, table schema.Table) {
				t.Helper()
				assert.Equal(t, schema.Numeric, table.Classify("weight"))
				assert.Equal(t, schema.Boolean, table.Classify("active"))
				assert.Equal(t, schema.StringKeep, table.Classify("revision"))
				assert.Equal(t, schema.ArrayOfString, table.Classify("alias"))
				assert.True(t, table.KnownField("children"))
				assert.Equal(t, schema.Unclassified, table.Classify("size"), "Override replaces the default sets")
			},
		},
		"Empty file classifies nothing": {
			content: "",
			check: func(t *testing.T, table schema.Table) {
				t.Helper()
				assert.Equal(t, schema.Unclassified, table.Classify("size"))
			},
		},
		"Error on duplicate classification": {
			content: `
numeric = ["size"]
boolean = ["size"]
`,
			wantErr: true,
		},
		"Error on invalid TOML":   {content: "numeric = [", wantErr: true},
		"Error on missing file":   {noFile: true, wantErr: true},
		"Error on wrong key type": {content: `numeric = "size"`, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "schema.toml")
			if !tc.noFile {
				require.NoError(t, os.WriteFile(path, []byte(tc.content), 0600), "Setup: could not write schema file")
			}

			table, err := schema.Load(path)
			if tc.wantErr {
				require.Error(t, err, "Load should return an error")
				return
			}
			require.NoError(t, err, "Load should not return an error")

			if tc.check != nil {
				tc.check(t, table)
			}
		})
	}
}
