package domain

import "strings"

// User is a person known to the time-tracking service.
type User struct {
	ID    int
	Login string
}

// Match reports whether every comma-separated term in query occurs in the
// user's login.
func (u User) Match(query string) bool {
	return matchesQuery(u.Login, query)
}

// Project is a billing project known to the service.
type Project struct {
	ID          int
	Description string
	CustomerID  int
}

// Match reports whether every comma-separated term in query occurs in the
// project description.
func (p Project) Match(query string) bool {
	return matchesQuery(p.Description, query)
}

// Customer is a client organization known to the service.
type Customer struct {
	ID   int
	Name string
}

// Match reports whether every comma-separated term in query occurs in the
// customer name.
func (c Customer) Match(query string) bool {
	return matchesQuery(c.Name, query)
}

// matchesQuery does case-insensitive substring matching: the query is split
// on commas and every term must occur in s.
func matchesQuery(s, query string) bool {
	s = strings.ToLower(s)
	for _, term := range strings.Split(strings.ToLower(query), ",") {
		if !strings.Contains(s, strings.TrimSpace(term)) {
			return false
		}
	}
	return true
}

// Directory holds the users, projects and customers fetched from the
// service at login. It is owned by whoever fetched it and passed explicitly
// wherever identities need resolving; there is no process-wide registry.
type Directory struct {
	Users     map[int]User
	Projects  map[int]Project
	Customers map[int]Customer
}

// NewDirectory returns an empty directory ready to be populated.
func NewDirectory() Directory {
	return Directory{
		Users:     make(map[int]User),
		Projects:  make(map[int]Project),
		Customers: make(map[int]Customer),
	}
}

// FindProjects returns the projects matching query, in no particular order.
func (d Directory) FindProjects(query string) []Project {
	var matches []Project
	for _, p := range d.Projects {
		if p.Match(query) {
			matches = append(matches, p)
		}
	}
	return matches
}

// FindCustomers returns the customers matching query.
func (d Directory) FindCustomers(query string) []Customer {
	var matches []Customer
	for _, c := range d.Customers {
		if c.Match(query) {
			matches = append(matches, c)
		}
	}
	return matches
}

// FindUserByLogin returns the user with exactly the given login.
func (d Directory) FindUserByLogin(login string) (User, bool) {
	for _, u := range d.Users {
		if u.Login == login {
			return u, true
		}
	}
	return User{}, false
}
