// Package cli is the terminal front-end of the onboarding wizard. It renders
// the current step, turns typed commands into draft edits and transitions,
// and prints one notice line per failure.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/wizard"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

type Runner struct {
	session *wizard.Session
	reader  *bufio.Reader
	w       io.Writer
}

func NewRunner(session *wizard.Session, r io.Reader, w io.Writer) *Runner {
	return &Runner{session: session, reader: bufio.NewReader(r), w: w}
}

// Run drives the session until it completes, the user backs out of the
// first step, quits, or input ends. It returns how the session ended.
func (r *Runner) Run(ctx context.Context) wizard.Outcome {
	defer r.session.Close()

	fmt.Fprintln(r.w, "Welcome! Let's set up your profile (type 'help' for commands)")
	if n := r.session.Notice(); n != "" {
		fmt.Fprintln(r.w, "!", n)
	}
	r.render()

	for {
		if ctx.Err() != nil {
			return wizard.Exited
		}

		line, err := GetSimpleText(r.reader, fmt.Sprintf("[%s]", r.session.Step()), r.w)
		if err != nil {
			return wizard.Exited
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "":
			continue
		case "help":
			r.help()
		case "show":
			r.render()
		case "next", "n":
			out, err := r.session.Forward(ctx)
			if err != nil {
				r.notice(err)
				continue
			}
			if out == wizard.Completed {
				fmt.Fprintf(r.w, "You're all set, %s!\n", r.session.Profile().Name)
				return out
			}
			r.render()
		case "back", "b":
			out, err := r.session.Back()
			if err != nil {
				r.notice(err)
				continue
			}
			if out == wizard.Exited {
				fmt.Fprintln(r.w, "Leaving onboarding")
				return out
			}
			r.render()
		case "quit", "exit":
			fmt.Fprintln(r.w, "Bye!")
			return wizard.Exited
		default:
			if err := r.edit(ctx, strings.ToLower(cmd), arg); err != nil {
				r.notice(err)
			}
		}
	}
}

func (r *Runner) notice(err error) {
	fmt.Fprintln(r.w, "!", wizard.Describe(err))
}

// edit applies a draft command. Commands are accepted on any step so the
// user can fix an earlier answer from the review screen.
func (r *Runner) edit(ctx context.Context, cmd, arg string) error {
	d := r.session.Draft()

	switch cmd {
	case "name":
		d.Name = arg
	case "year":
		d.ClassYear = arg
	case "major":
		d.Major = arg
	case "bio":
		d.Bio = arg
	case "contact":
		v, err := models.ParseContactPreference(arg)
		if err != nil {
			return err
		}
		d.ContactPreference = v
	case "photo":
		return r.addPhoto(arg)
	case "rmphoto":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("photo number expected: %w", err)
		}
		return d.RemovePhoto(n - 1)
	case "gender":
		v, err := models.ParseGender(arg)
		if err != nil {
			return err
		}
		d.Gender = v
	case "pref":
		v, err := models.ParseGenderPreference(arg)
		if err != nil {
			return err
		}
		d.GenderPreference = v
	case "vibe":
		return d.SelectVibe(arg)
	case "interest":
		on, err := d.ToggleInterest(arg)
		if err != nil {
			return err
		}
		r.toggled(arg, on)
	case "club":
		on, err := d.ToggleClub(arg)
		if err != nil {
			return err
		}
		r.toggled(arg, on)
	case "locate":
		b, err := r.session.Locate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Nearest building: %s\n", b.Name)
	case "building":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("building id expected: %w", err)
		}
		return r.session.SelectBuilding(id)
	default:
		fmt.Fprintln(r.w, "Unknown command:", cmd)
	}
	return nil
}

func (r *Runner) toggled(name string, on bool) {
	if on {
		fmt.Fprintf(r.w, "+ %s\n", strings.TrimSpace(name))
	} else {
		fmt.Fprintf(r.w, "- %s\n", strings.TrimSpace(name))
	}
}

func (r *Runner) addPhoto(path string) error {
	if path == "" {
		return fmt.Errorf("%w: photo path expected", common.ErrValidation)
	}
	data, err := readFile(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := &models.Photo{
		Name:        filepath.Base(path),
		PreviewURL:  "file://" + abs,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}
	if err := r.session.Draft().AddPhoto(p); err != nil {
		p.Release()
		return err
	}
	fmt.Fprintf(r.w, "Added %s (%d/%d)\n", p.Name, len(r.session.Draft().Photos), models.MaxPhotos)
	return nil
}
