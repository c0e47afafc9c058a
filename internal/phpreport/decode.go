package phpreport

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
)

// The service speaks a plain XML dialect: one envelope element wrapping a
// flat list of records, every field its own child element. Ids referenced
// across payloads (userId, projectId) resolve against the directory.

type loginEnvelope struct {
	SessionID string `xml:"sessionId"`
}

func decodeSessionID(data []byte) (string, error) {
	var env loginEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if env.SessionID == "" {
		return "", ErrLogin
	}
	return env.SessionID, nil
}

type userXML struct {
	ID    int    `xml:"id"`
	Login string `xml:"login"`
}

type usersEnvelope struct {
	Users []userXML `xml:"user"`
}

func decodeUsers(data []byte, into map[int]domain.User) error {
	var env usersEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding users: %w", err)
	}
	for _, u := range env.Users {
		into[u.ID] = domain.User{ID: u.ID, Login: u.Login}
	}
	return nil
}

type projectXML struct {
	ID          int    `xml:"id"`
	Description string `xml:"description"`
	CustomerID  string `xml:"customerId"`
}

type projectsEnvelope struct {
	Projects []projectXML `xml:"project"`
}

func decodeProjects(data []byte, into map[int]domain.Project) error {
	var env projectsEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding projects: %w", err)
	}
	for _, p := range env.Projects {
		into[p.ID] = domain.Project{
			ID:          p.ID,
			Description: p.Description,
			CustomerID:  optionalID(p.CustomerID),
		}
	}
	return nil
}

type customerXML struct {
	ID   int    `xml:"id"`
	Name string `xml:"name"`
}

type customersEnvelope struct {
	Customers []customerXML `xml:"customer"`
}

func decodeCustomers(data []byte, into map[int]domain.Customer) error {
	var env customersEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding customers: %w", err)
	}
	for _, c := range env.Customers {
		into[c.ID] = domain.Customer{ID: c.ID, Name: c.Name}
	}
	return nil
}

type taskXML struct {
	ID         int    `xml:"id"`
	Date       string `xml:"date"`
	InitTime   string `xml:"initTime"`
	EndTime    string `xml:"endTime"`
	Story      string `xml:"story"`
	Text       string `xml:"text"`
	Type       string `xml:"ttype"`
	Phase      string `xml:"phase"`
	Onsite     string `xml:"onsite"`
	Telework   string `xml:"telework"`
	UserID     int    `xml:"userId"`
	ProjectID  string `xml:"projectId"`
	CustomerID string `xml:"customerId"`
}

type tasksEnvelope struct {
	Tasks []taskXML `xml:"task"`
}

func decodeTasks(data []byte, dir domain.Directory) ([]domain.Task, error) {
	var env tasksEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(env.Tasks))
	for _, t := range env.Tasks {
		date, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return nil, fmt.Errorf("task %d: bad date %q: %w", t.ID, t.Date, err)
		}
		start, err := parseClock(t.InitTime)
		if err != nil {
			return nil, fmt.Errorf("task %d: bad init time %q: %w", t.ID, t.InitTime, err)
		}
		end, err := parseClock(t.EndTime)
		if err != nil {
			return nil, fmt.Errorf("task %d: bad end time %q: %w", t.ID, t.EndTime, err)
		}

		user, ok := dir.Users[t.UserID]
		if !ok {
			// Tolerate people missing from the directory; the report
			// falls back to the numeric id.
			user = domain.User{ID: t.UserID, Login: strconv.Itoa(t.UserID)}
		}

		tasks = append(tasks, domain.Task{
			ID:         t.ID,
			Date:       dateutil.Date(date.Year(), date.Month(), date.Day()),
			Start:      start,
			End:        end,
			UserID:     t.UserID,
			User:       user,
			ProjectID:  optionalID(t.ProjectID),
			CustomerID: optionalID(t.CustomerID),
			Type:       t.Type,
			Phase:      t.Phase,
			Story:      t.Story,
			Text:       t.Text,
			Onsite:     t.Onsite == "true",
			Telework:   t.Telework == "true",
		})
	}
	return tasks, nil
}

// parseClock converts an "HH:MM" wall-clock value into an offset from
// midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// optionalID parses an id field the service sometimes leaves empty.
func optionalID(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
