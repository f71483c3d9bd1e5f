package cli

import (
	"fmt"
	"strings"

	"volunteermap/internal/domain"
)

func (a *App) prompt() {
	fmt.Fprintf(a.out, "%s> ", promptName(a.screen))
}

func promptName(s domain.Screen) string {
	switch s {
	case domain.ScreenEventMap:
		return "map"
	case domain.ScreenAddEvent:
		return "add"
	default:
		return "login"
	}
}

func (a *App) render() {
	switch {
	case a.mapView != nil:
		a.renderMap()
	case a.form != nil:
		a.renderForm()
	default:
		fmt.Fprintln(a.out, "Sign in with: login <email> <password>")
	}
}

func (a *App) renderMap() {
	var b strings.Builder
	v := a.mapView.Viewport()
	fmt.Fprintf(&b, "Viewport %.5f,%.5f span %.4fx%.4f\n", v.Latitude, v.Longitude, v.LatitudeDelta, v.LongitudeDelta)
	for _, e := range a.mapView.Events() {
		fmt.Fprintf(&b, "  * %-24s %s  (%.5f, %.5f)", e.Name, e.DateTime, e.Position.Latitude, e.Position.Longitude)
		if e.VolunteersNeeded != nil {
			fmt.Fprintf(&b, "  %d needed", *e.VolunteersNeeded)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.mapView.Summary())
	b.WriteString("\n")
	fmt.Fprint(a.out, b.String())
}

func (a *App) renderForm() {
	s := a.form.Snapshot()
	d := s.Draft
	var b strings.Builder
	fmt.Fprintf(&b, "Name:        %s\n", d.Name)
	fmt.Fprintf(&b, "Description: %s\n", d.Description)
	fmt.Fprintf(&b, "Volunteers:  %s\n", d.VolunteersNeeded)
	fmt.Fprintf(&b, "Date:        %s\n", d.DateTime.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Location:    %.5f, %.5f\n", d.Position.Latitude, d.Position.Longitude)
	if d.Image.IsAbsent() {
		b.WriteString("Image:       none\n")
	} else {
		fmt.Fprintf(&b, "Image:       %s (%s)\n", d.Image.URI, d.Image.State)
	}
	fmt.Fprint(a.out, b.String())
}

func (a *App) help() {
	var lines []string
	switch a.screen {
	case domain.ScreenEventMap:
		lines = []string{"list", "new", "logout"}
	case domain.ScreenAddEvent:
		lines = []string{
			"name <text>",
			"description <text>",
			"volunteers <number>",
			"date <2006-01-02 15:04>",
			"pin <latitude> <longitude>",
			"image <path>",
			"show",
			"submit",
			"back",
		}
	default:
		lines = []string{"login <email> <password>"}
	}
	lines = append(lines, "quit")
	fmt.Fprintln(a.out, strings.Join(lines, "\n"))
}
