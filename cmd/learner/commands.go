package main

import (
	"errors"
	"fmt"
	"strings"

	"elearning_app/course"
)

var errUnknownCommand = errors.New("unknown command, type h for help")

// controller is the part of *course.Session the command loop drives.
type controller interface {
	View() course.View
	Next() course.View
	Previous() course.View
	JumpToStart() course.View
	JumpToEnd() course.View
	Restart() course.View
	Select(option int) (course.View, error)
	Submit() (course.View, error)
	NextQuestion() (course.View, error)
	Retake() (course.View, error)
	CloseQuiz() (course.View, error)
}

// dispatch applies one input line. "n" and "r" follow whichever button the
// current screen shows.
func dispatch(c controller, line string) (quit bool, err error) {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "h", "help", "?":
		return false, errHelp
	case "p", "prev", "previous":
		c.Previous()
		return false, nil
	case "home":
		c.JumpToStart()
		return false, nil
	case "end":
		c.JumpToEnd()
		return false, nil
	case "a", "b", "c", "d":
		_, err = c.Select(int(cmd[0] - 'a'))
		return false, err
	case "s", "submit":
		_, err = c.Submit()
		return false, err
	case "n", "next":
		return false, next(c)
	case "r":
		return false, again(c)
	case "retake":
		_, err = c.Retake()
		return false, err
	case "restart":
		c.Restart()
		return false, nil
	}
	return false, fmt.Errorf("%q: %w", cmd, errUnknownCommand)
}

func next(c controller) error {
	v := c.View()
	if q := v.Quiz; q != nil {
		switch {
		case q.Result != nil:
			_, err := c.CloseQuiz()
			return err
		case q.CanAdvance:
			_, err := c.NextQuestion()
			return err
		}
	}
	c.Next()
	return nil
}

func again(c controller) error {
	v := c.View()
	switch {
	case v.Screen == course.ScreenComplete:
		c.Restart()
		return nil
	case v.Quiz != nil:
		_, err := c.Retake()
		return err
	}
	return errUnknownCommand
}
