package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/notepad/internal/database"
	"github.com/mdouchement/notepad/internal/model"
	"github.com/mdouchement/notepad/pkg/stormcodec"
	"github.com/mdouchement/notepad/pkg/stormsql"
	"github.com/mdouchement/notepad/pkg/structs"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go notepad.db " SELECT `Key` FROM notes WHERE `Key` LIKE '^todo' ORDER BY `Key` LIMIT 10;  "

type options struct {
	codec      string
	collection string
	litter     bool
}

func main() {
	var opts options

	c := &cobra.Command{
		Use:   "console DBFILE SQL",
		Short: "SQL console for notepad storm database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(os.Stdout, args[0], args[1], opts)
		},
	}
	c.Flags().StringVar(&opts.codec, "codec", stormcodec.Default, "Storm codec of the database")
	c.Flags().StringVar(&opts.collection, "collection", database.DefaultCollection, "Collection where notes are stored")
	c.Flags().BoolVar(&opts.litter, "litter", false, "Dump records as Go literals")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(w io.Writer, dbfile, sql string, opts options) error {
	//
	//
	sc, err := stormsql.ParseSelect(sql)
	if err != nil {
		return err
	}
	if sc.Tablename != "notes" {
		return errors.Errorf("unknown tablename: %s", sc.Tablename)
	}

	//
	//
	codec, err := stormcodec.Lookup(opts.codec)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Opening", dbfile)
	db, err := storm.Open(dbfile, storm.Codec(codec))
	if err != nil {
		return errors.Wrap(err, "could not open database")
	}
	defer db.Close()

	//
	// Prepare request
	//

	query := db.From(opts.collection).Select(sc.Matcher)
	if sc.Skip > 0 {
		query.Skip(sc.Skip)
	}
	if sc.Limit > 0 {
		query.Limit(sc.Limit)
	}
	if len(sc.OrderBy) > 0 {
		query.OrderBy(sc.OrderBy...)
		if sc.OrderByReversed {
			query.Reverse()
		}
	}

	// Execute

	if sc.Count {
		return count(w, query)
	}

	return list(w, sc, query, opts.litter)
}

func count(w io.Writer, query storm.Query) error {
	n, err := query.Count(&model.Note{})
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Fprintln(w, "Count:", n)

	return nil
}

func list(w io.Writer, sc *stormsql.SelectClause, query storm.Query, dumper bool) error {
	var notes []*model.Note
	err := query.Find(&notes)
	if err != nil && err != storm.ErrNotFound {
		return errors.Wrap(err, "could not perform query")
	}

	records := make([]map[string]any, 0, len(notes))
	for _, note := range notes {
		record, err := structs.Project(note, sc.SelectedFields...)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	if dumper {
		fmt.Fprintln(w, litter.Sdump(records))
		return nil
	}

	return jsondump(w, records)
}

func jsondump(w io.Writer, v any) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode records")
	}
	fmt.Fprintln(w, string(d))
	return nil
}
