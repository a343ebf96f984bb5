package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/wizard"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (r *Runner) render() {
	d := r.session.Draft()
	opts := r.session.Options()
	w := r.w

	steps := wizard.Steps()
	for i, s := range steps {
		if s == r.session.Step() {
			fmt.Fprintf(w, "\n== %s (%d/%d) ==\n", s, i+1, len(steps))
		}
	}

	switch r.session.Step() {
	case wizard.StepBasics:
		fmt.Fprintf(w, "name: %s\nyear: %s\nmajor: %s\nbio: %s\ncontact: %s\n",
			orDash(d.Name), orDash(d.ClassYear), orDash(d.Major), orDash(d.Bio), d.ContactPreference)
	case wizard.StepPhotos:
		if len(d.Photos) == 0 {
			fmt.Fprintln(w, "no photos yet, use 'photo <path>'")
		}
		for i, p := range d.Photos {
			fmt.Fprintf(w, "%d. %s (%d KB)\n", i+1, p.Name, p.Size()/1024)
		}
	case wizard.StepGender:
		fmt.Fprintf(w, "gender: %s\npref: %s\n", orDash(string(d.Gender)), d.GenderPreference)
		for _, v := range models.Vibes {
			mark := " "
			if v.ID == d.VibeID {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s %s (%s)\n", mark, v.Emoji, v.Label, v.ID)
		}
	case wizard.StepInterests:
		fmt.Fprintf(w, "interests (%d/%d): %s\n", len(d.Interests), models.MaxInterests, orDash(strings.Join(d.Interests, ", ")))
		fmt.Fprintf(w, "  popular: %s\n", orDash(strings.Join(opts.Interests, ", ")))
		fmt.Fprintf(w, "clubs (%d/%d): %s\n", len(d.Clubs), models.MaxClubs, orDash(strings.Join(d.Clubs, ", ")))
		fmt.Fprintf(w, "  existing: %s\n", orDash(strings.Join(opts.Clubs, ", ")))
	case wizard.StepLocation:
		for _, b := range opts.Buildings {
			mark := " "
			if d.Building != nil && d.Building.ID == b.ID {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %d. %s\n", mark, b.ID, b.Name)
		}
		fmt.Fprintln(w, "use 'locate' or 'building <id>'")
	case wizard.StepReview:
		location := "-"
		if d.Building != nil {
			location = d.Building.Name
		}
		vibe := "-"
		if v, ok := d.Vibe(); ok {
			vibe = v.Emoji + " " + v.Label
		}
		fmt.Fprintf(w, "%s, class of %s, %s\n", d.Name, d.ClassYear, d.Major)
		fmt.Fprintf(w, "photos: %d, vibe: %s, lives near: %s\n", len(d.Photos), vibe, location)
		fmt.Fprintf(w, "interests: %s\nclubs: %s\n", strings.Join(d.Interests, ", "), strings.Join(d.Clubs, ", "))
		fmt.Fprintln(w, "type 'next' to save your profile")
	}
}

func (r *Runner) help() {
	fmt.Fprintln(r.w, `Commands:
  next | n, back | b, show, help, quit
  name|year|major|bio <text>, contact email|phone|both
  photo <path>, rmphoto <n>
  gender male|female|non-binary, pref male|female|everyone, vibe <id>
  interest <name>, club <name>   (again to deselect)
  locate, building <id>`)
}
