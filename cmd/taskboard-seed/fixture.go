package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixture describes one demo organization. Users are referenced by
// username everywhere else in the file; projects by their key.
type Fixture struct {
	Organization struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"organization"`

	Admin    Account   `yaml:"admin"`
	Members  []Account `yaml:"members"`
	Projects []Project `yaml:"projects"`
	Meetings []Meeting `yaml:"meetings"`
}

type Account struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"` // manager or employee; ignored for the admin
}

type Project struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Status      string   `yaml:"status"`
	Priority    string   `yaml:"priority"`
	Owner       string   `yaml:"owner"` // defaults to the admin
	Team        []string `yaml:"team"`
	Tasks       []Task   `yaml:"tasks"`
}

type Task struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Assignee       string   `yaml:"assignee"`
	Status         string   `yaml:"status"`
	Priority       string   `yaml:"priority"`
	EstimatedHours float64  `yaml:"estimatedHours"`
	Tags           []string `yaml:"tags"`

	// Tracked closes a time entry of this length, recorded by the
	// assignee, right after the task is created.
	Tracked time.Duration `yaml:"tracked"`
}

type Meeting struct {
	Title     string        `yaml:"title"`
	Type      string        `yaml:"type"`
	URL       string        `yaml:"url"`
	Location  string        `yaml:"location"`
	Organizer string        `yaml:"organizer"` // defaults to the admin
	Project   string        `yaml:"project"`   // project key
	StartsIn  time.Duration `yaml:"startsIn"`  // relative to the seed run
	Duration  time.Duration `yaml:"duration"`
	Attendees []string      `yaml:"attendees"`
}

func LoadFixture(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, err
	}
	defer f.Close()
	return DecodeFixture(f)
}

func DecodeFixture(r io.Reader) (Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return Fixture{}, err
	}
	return fx, nil
}

// Validate checks references inside the fixture. Field level rules are
// left to the API.
func (fx Fixture) Validate() error {
	var errs []error

	if fx.Organization.Name == "" {
		errs = append(errs, errors.New("organization.name is required"))
	}
	if fx.Admin.Username == "" {
		errs = append(errs, errors.New("admin.username is required"))
	}

	users := []string{fx.Admin.Username}
	for i, m := range fx.Members {
		if m.Username == "" {
			errs = append(errs, fmt.Errorf("members[%d].username is required", i))
			continue
		}
		if slices.Contains(users, m.Username) {
			errs = append(errs, fmt.Errorf("members[%d]: duplicate username %q", i, m.Username))
		}
		switch m.Role {
		case "", "employee", "manager":
		default:
			errs = append(errs, fmt.Errorf("members[%d]: role must be manager or employee", i))
		}
		users = append(users, m.Username)
	}

	known := func(where, username string) {
		if username != "" && !slices.Contains(users, username) {
			errs = append(errs, fmt.Errorf("%s: unknown user %q", where, username))
		}
	}

	var keys []string
	for i, p := range fx.Projects {
		where := fmt.Sprintf("projects[%d]", i)
		if p.Key != "" {
			if slices.Contains(keys, p.Key) {
				errs = append(errs, fmt.Errorf("%s: duplicate key %q", where, p.Key))
			}
			keys = append(keys, p.Key)
		}
		known(where+".owner", p.Owner)
		for _, u := range p.Team {
			known(where+".team", u)
		}
		for j, t := range p.Tasks {
			known(fmt.Sprintf("%s.tasks[%d].assignee", where, j), t.Assignee)
			if t.Tracked > 0 && t.Assignee == "" {
				errs = append(errs, fmt.Errorf("%s.tasks[%d]: tracked time needs an assignee", where, j))
			}
		}
	}

	for i, m := range fx.Meetings {
		where := fmt.Sprintf("meetings[%d]", i)
		known(where+".organizer", m.Organizer)
		for _, u := range m.Attendees {
			known(where+".attendees", u)
		}
		if m.Project != "" && !slices.Contains(keys, m.Project) {
			errs = append(errs, fmt.Errorf("%s: unknown project %q", where, m.Project))
		}
		if m.Duration <= 0 {
			errs = append(errs, fmt.Errorf("%s: duration must be positive", where))
		}
	}

	return errors.Join(errs...)
}
