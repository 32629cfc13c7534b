package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

const (
	// maxAttempts is the number of times the selection is asked for before giving up.
	maxAttempts = 3

	selectAll = "all"
)

var (
	ErrSelection = errors.New("invalid organization selection")
	ErrNoInput   = errors.New("no organization selection read")
)

// ParseSelection returns the 0-based indices for a comma separated list of 1-based organization numbers.
//
// Blank entries are ignored, repeated numbers are returned once in the order first given
// and "all" selects every organization.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.Wrap(ErrSelection, "no organization numbers given")
	}

	if n < 1 {
		return nil, errors.Wrap(ErrSelection, "no organizations to select from")
	}

	if strings.EqualFold(input, selectAll) {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}

		return all, nil
	}

	selected := []int{}
	seen := make(map[int]bool)

	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		num, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrap(ErrSelection, fmt.Sprintf("%q is not a number", field))
		}

		if num < 1 || num > n {
			return nil, errors.Wrap(ErrSelection, fmt.Sprintf("%d is not between 1 and %d", num, n))
		}

		if seen[num] {
			continue
		}

		seen[num] = true
		selected = append(selected, num-1)
	}

	if len(selected) == 0 {
		return nil, errors.Wrap(ErrSelection, "no organization numbers given")
	}

	return selected, nil
}

// Select returns the organizations at the given 0-based indices.
func Select(orgs []model.Organization, indices []int) []model.Organization {
	selected := make([]model.Organization, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, orgs[idx])
	}

	return selected
}

// Interactive returns true when the file is a terminal.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Prompter asks the operator which organizations to report on.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// SelectOrganizations lists the organizations and reads the selection,
// an invalid selection is reported and asked for again up to three times.
func (p *Prompter) SelectOrganizations(orgs []model.Organization) ([]model.Organization, error) {
	fmt.Fprintln(p.out, "Organizations:")

	for idx, org := range orgs {
		fmt.Fprintf(p.out, "  %d. %s (%s)\n", idx+1, org.Name, org.ID)
	}

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Fprint(p.out, "Enter the organization numbers separated by commas, or all: ")

		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			// input ended after an invalid selection
			if lastErr != nil {
				return nil, lastErr
			}

			return nil, errors.Wrap(ErrNoInput, err.Error())
		}

		indices, err := ParseSelection(line, len(orgs))
		if err == nil {
			return Select(orgs, indices), nil
		}

		lastErr = err

		color.New(color.FgRed).Fprintln(p.out, "ERROR: "+err.Error())
	}

	return nil, lastErr
}
