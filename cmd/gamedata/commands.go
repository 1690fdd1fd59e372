package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	ioutils "github.com/handiism/gamedata/internal/io"
	"github.com/handiism/gamedata/internal/model"
	"github.com/handiism/gamedata/internal/part"
	"github.com/handiism/gamedata/internal/session"
)

// errUsage marks a command invoked with the wrong arguments.
var errUsage = errors.New("usage")

const usage = `Usage:
  gamedata [options] <command> [arguments]

Commands:
  types                                   List entity types
  list <type>                             List folders and instances
  show <type> <name>                      Print every part of an instance
  new <type> <name>                       Save a blank instance
  mkdir <type> <name>                     Create a folder
  rm <type> <name>                        Delete an instance
  rmdir <type> <name>                     Delete a folder and its content
  import-image <type> <name> <part> <file>
  import-audio <type> <name> <part> <file>
  icon <type> <name> <out.png>            Write the instance icon

All paths below the type root are taken from -folder.
`

// command runs one CLI command against a started session.
func command(sess *session.Session, folder model.FolderPath, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	name, args := args[0], args[1:]

	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects %d arguments", errUsage, name, n)
		}
		return nil
	}

	switch name {
	case "types":
		for _, t := range sess.Types() {
			fmt.Fprintln(out, t)
		}
		return nil

	case "list":
		if err := need(1); err != nil {
			return err
		}
		items, err := sess.List(args[0], folder)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.Folder {
				fmt.Fprintf(out, "%s/\n", it.Name)
			} else {
				fmt.Fprintln(out, it.Name)
			}
		}
		return nil

	case "show":
		if err := need(2); err != nil {
			return err
		}
		if err := sess.Open(args[0], args[1], folder); err != nil {
			return err
		}
		summary, err := sess.Describe(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", model.Address{Type: args[0], Name: args[1], Folder: folder})
		for _, s := range summary {
			fmt.Fprintf(out, "  %s (%s): %s\n", s.Part, s.Kind, indent(s.Detail))
		}
		return nil

	case "new":
		if err := need(2); err != nil {
			return err
		}
		if err := sess.NewInstance(args[0]); err != nil {
			return err
		}
		return sess.Save(args[0], args[1], folder)

	case "mkdir":
		if err := need(2); err != nil {
			return err
		}
		return sess.CreateFolder(args[0], folder, args[1])

	case "rm", "rmdir":
		if err := need(2); err != nil {
			return err
		}
		return sess.Delete(args[0], folder, session.Item{Name: args[1], Folder: name == "rmdir"})

	case "import-image", "import-audio":
		if err := need(4); err != nil {
			return err
		}
		want := part.KindImage
		if name == "import-audio" {
			want = part.KindAudio
		}
		return importFile(sess, folder, args[0], args[1], args[2], args[3], want)

	case "icon":
		if err := need(3); err != nil {
			return err
		}
		icon, err := sess.Icon(args[0], args[1], folder)
		if err != nil {
			return err
		}
		if icon == nil {
			return fmt.Errorf("%s has no icon", model.Address{Type: args[0], Name: args[1], Folder: folder})
		}
		if err := ioutils.SaveImage(sess.FileSystem().Fs(), args[2], icon); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %dx%d\n", args[2], icon.Bounds().Dx(), icon.Bounds().Dy())
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

// importFile stores a file into one part of an instance, creating the
// instance when it does not exist yet.
func importFile(sess *session.Session, folder model.FolderPath, typ, name, partName, file string, want part.Kind) error {
	ld, err := sess.Loader(typ)
	if err != nil {
		return err
	}
	p, ok := ld.Part(partName)
	if !ok {
		return fmt.Errorf("%w: part %q of %s", model.ErrNotFound, partName, typ)
	}
	if p.Kind() != want {
		return model.Mismatchf(partName, "is a %s part, not %s", p.Kind(), want)
	}

	err = sess.Open(typ, name, folder)
	switch {
	case errors.Is(err, model.ErrNotFound):
		if err := sess.NewInstance(typ); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	if err := sess.Import(typ, partName, file); err != nil {
		return err
	}
	return sess.Save(typ, name, folder)
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
