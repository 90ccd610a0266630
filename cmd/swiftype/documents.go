package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/swiftype"
)

type indexFunc func(c *swiftype.Client, ctx context.Context, engineID string, docs []swiftype.Document) (*swiftype.Response, error)

func newDocumentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "documents", Short: "Index, fetch and delete documents"}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list ENGINE",
			Short: "List the documents of an engine",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
				return c.ListDocuments(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "get ENGINE ID...",
			Short: "Fetch documents by id",
			Args:  cobra.MinimumNArgs(2),
			RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
				return c.Documents(ctx, args[0], args[1:])
			}),
		},
		&cobra.Command{
			Use:   "delete ENGINE ID...",
			Short: "Delete documents by id",
			Args:  cobra.MinimumNArgs(2),
			RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
				return c.DeleteDocuments(ctx, args[0], args[1:])
			}),
		},
		newIndexCmd(a, "create", "Index new documents", (*swiftype.Client).CreateDocuments),
		newIndexCmd(a, "update", "Replace existing documents by id", (*swiftype.Client).UpdateDocuments),
		newIndexCmd(a, "upsert", "Create or replace documents", (*swiftype.Client).CreateOrUpdateDocuments),
	)
	return cmd
}

// newIndexCmd builds a command that sends a JSON array of documents from --file or stdin.
func newIndexCmd(a *app, use, short string, index indexFunc) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   use + " ENGINE",
		Short: short,
		Long:  short + ". Documents are read as a JSON array (or a single object) from --file or stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, c *swiftype.Client, args []string) (*swiftype.Response, error) {
			docs, err := a.readDocuments(file)
			if err != nil {
				return nil, err
			}
			return index(c, ctx, args[0], docs)
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with documents (default stdin)")
	return cmd
}

func (a *app) readDocuments(path string) ([]swiftype.Document, error) {
	v, err := a.readJSON(path)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case map[string]any:
		return []swiftype.Document{val}, nil
	case []any:
		docs := make([]swiftype.Document, len(val))
		for i, item := range val {
			doc, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("document %d is not a JSON object", i)
			}
			docs[i] = doc
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("expected a JSON array of documents, got %T", v)
	}
}
