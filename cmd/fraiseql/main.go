// Command fraiseql compiles filter and selection requests into SQL from
// the command line, for inspecting what a request will run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fraiseql/fraiseql-go"
	"github.com/fraiseql/fraiseql-go/catalog"
	"github.com/fraiseql/fraiseql-go/query"
	"github.com/fraiseql/fraiseql-go/where"
)

// viewsFile is the YAML document registering views for the CLI.
type viewsFile struct {
	Views []viewDef `yaml:"views"`
}

type viewDef struct {
	Name           string     `yaml:"name"`
	Relation       string     `yaml:"relation"`
	DocumentColumn string     `yaml:"documentColumn"`
	TypeTag        string     `yaml:"typeTag"`
	Transform      string     `yaml:"transform"`
	Fields         []fieldDef `yaml:"fields"`
}

type fieldDef struct {
	Name       string `yaml:"name"`
	StorageKey string `yaml:"storageKey"`
	Type       string `yaml:"type"`
}

type compileOptions struct {
	ViewsPath string
	View      string
	Filter    string
	Fields    []string
	OrderBy   []string
	Limit     int
	Offset    int
	Threshold int
	RawText   bool
	One       bool
	Count     bool
}

func main() {
	root := &cobra.Command{
		Use:           "fraiseql",
		Short:         "Compile document-view queries to SQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCompileCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCompileCommand() *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a filter and field selection into SQL",
		Long: `Compile a filter tree and field selection into the SQL statement the
compiler would execute, without touching a database.

The filter is the JSON form accepted by the API:

  fraiseql compile --views views.yaml --view products \
      --filter '{"name": {"eq": "Widget A"}}' --fields id,name`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ViewsPath, "views", "", "YAML file registering the views (required)")
	cmd.Flags().StringVar(&opts.View, "view", "", "view to query (required)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter tree as JSON")
	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "fields to project")
	cmd.Flags().StringSliceVar(&opts.OrderBy, "order-by", nil, "order fields, prefix with - for descending")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "row limit")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "row offset")
	cmd.Flags().IntVar(&opts.Threshold, "threshold", 0, "field-selective threshold")
	cmd.Flags().BoolVar(&opts.RawText, "raw-text", false, "cast the result to text")
	cmd.Flags().BoolVar(&opts.One, "one", false, "compile a single-row query")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "compile a count query")
	_ = cmd.MarkFlagRequired("views")
	_ = cmd.MarkFlagRequired("view")

	return cmd
}

func runCompile(cmd *cobra.Command, opts *compileOptions) error {
	cat, err := loadCatalog(opts.ViewsPath)
	if err != nil {
		return err
	}

	filter, err := where.ParseJSON([]byte(opts.Filter))
	if err != nil {
		return err
	}

	compiler, err := fraiseql.New(fraiseql.Config{
		Catalog:        cat,
		FieldThreshold: opts.Threshold,
		RawText:        opts.RawText,
		CacheSize:      -1,
	})
	if err != nil {
		return err
	}
	defer compiler.Close()

	req := fraiseql.Request{
		View:   opts.View,
		Filter: filter,
		Fields: opts.Fields,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	for _, field := range opts.OrderBy {
		order := fraiseql.Order{Field: field}
		if len(field) > 1 && field[0] == '-' {
			order = fraiseql.Order{Field: field[1:], Desc: true}
		}
		req.OrderBy = append(req.OrderBy, order)
	}

	var q query.DatabaseQuery
	switch {
	case opts.Count:
		q, err = compiler.CompileCount(req)
	case opts.One:
		q, err = compiler.CompileFindOne(req)
	default:
		q, err = compiler.CompileFind(req)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), q.SQL)
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read views file: %w", err)
	}

	var file viewsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse views file: %w", err)
	}

	builder := catalog.NewBuilder()
	for _, v := range file.Views {
		def := catalog.ViewDef{
			Name:           v.Name,
			Relation:       v.Relation,
			DocumentColumn: v.DocumentColumn,
			TypeTag:        v.TypeTag,
			Transform:      v.Transform,
		}
		for _, f := range v.Fields {
			def.Fields = append(def.Fields, catalog.FieldDef{
				Name:       f.Name,
				StorageKey: f.StorageKey,
				Type:       where.DeclaredType(f.Type),
			})
		}
		builder.View(def)
	}
	return builder.Build()
}
