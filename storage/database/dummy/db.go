// Package dummydb is an in-memory implementation of the core repositories,
// used by the test harnesses and for local hacking without PostgreSQL.
package dummydb

import (
	"sync"

	"github.com/trezcool/classflow/core/attendance"
	"github.com/trezcool/classflow/core/category"
	"github.com/trezcool/classflow/core/event"
	"github.com/trezcool/classflow/core/timetable"
	"github.com/trezcool/classflow/core/user"
)

type (
	DB struct {
		user       *userTable
		category   *categoryTable
		event      *eventTable
		timetable  *timetableTable
		attendance *attendanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	categoryTable struct {
		sync.RWMutex
		table map[string]*category.Category
	}

	eventTable struct {
		sync.RWMutex
		table map[string]*event.Event
	}

	timetableTable struct {
		sync.RWMutex
		table map[string]*timetable.TimetableEntry
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.AttendanceRecord
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		category:   &categoryTable{table: make(map[string]*category.Category)},
		event:      &eventTable{table: make(map[string]*event.Event)},
		timetable:  &timetableTable{table: make(map[string]*timetable.TimetableEntry)},
		attendance: &attendanceTable{table: make(map[string]*attendance.AttendanceRecord)},
	}
	return db, nil
}
