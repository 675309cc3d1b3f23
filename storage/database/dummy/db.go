package dummydb

import (
	"sync"

	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/class"
	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/facilitator"
	"github.com/amanihq/amani/core/payment"
	"github.com/amanihq/amani/core/staff"
)

// DB is the in-memory storage backend used in tests and for quick local runs.
type (
	DB struct {
		client      *clientTable
		staff       *staffTable
		payment     *paymentTable
		class       *classTable
		enrollment  *enrollmentTable
		attendance  *attendanceTable
		facilitator *facilitatorTable
		assignment  *assignmentTable
		audit       *auditTable
	}

	clientTable struct {
		sync.RWMutex
		table map[string]*client.Client
	}
	staffTable struct {
		sync.RWMutex
		table map[string]*staff.Staff
	}
	paymentTable struct {
		sync.RWMutex
		table map[string]*payment.Payment
	}
	classTable struct {
		sync.RWMutex
		table map[string]*class.Class
	}
	enrollmentTable struct {
		sync.RWMutex
		table map[string]*class.Enrollment
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*class.Attendance
	}
	facilitatorTable struct {
		sync.RWMutex
		table map[string]*facilitator.Facilitator
	}
	assignmentTable struct {
		sync.RWMutex
		table map[string]*facilitator.Assignment
	}
	auditTable struct {
		sync.RWMutex
		table map[string]*audit.Entry
	}
)

func Open() (*DB, error) {
	db := &DB{
		client:      &clientTable{table: make(map[string]*client.Client)},
		staff:       &staffTable{table: make(map[string]*staff.Staff)},
		payment:     &paymentTable{table: make(map[string]*payment.Payment)},
		class:       &classTable{table: make(map[string]*class.Class)},
		enrollment:  &enrollmentTable{table: make(map[string]*class.Enrollment)},
		attendance:  &attendanceTable{table: make(map[string]*class.Attendance)},
		facilitator: &facilitatorTable{table: make(map[string]*facilitator.Facilitator)},
		assignment:  &assignmentTable{table: make(map[string]*facilitator.Assignment)},
		audit:       &auditTable{table: make(map[string]*audit.Entry)},
	}
	return db, nil
}
