package server

import (
	"encoding/json"
	"flag"
	"io"

	"github.com/callora/custody/errors"
	"github.com/callora/custody/journal"
)

// EventsCmd prints the journaled events as JSON, one record per line.
//
// Flags:
//
//	-from  first sequence to print
//	-name  print only events with this name
func EventsCmd(journalPath string, out io.Writer, args []string) error {
	var (
		from uint64
		name string
	)
	eventFlags := flag.NewFlagSet("events", flag.ContinueOnError)
	eventFlags.Uint64Var(&from, "from", 0, "first sequence to print")
	eventFlags.StringVar(&name, "name", "", "print only events with this name")
	if err := eventFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		return err
	}
	defer j.Close()

	enc := json.NewEncoder(out)
	return j.Iterate(from, func(r journal.Record) error {
		if name != "" && r.Name != name {
			return nil
		}
		return enc.Encode(r)
	})
}
