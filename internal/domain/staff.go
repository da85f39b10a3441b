package domain

// StaffRole роль сотрудника центра
type StaffRole string

const (
	// RoleTechnician техник - учитывается в ёмкости слотов
	RoleTechnician StaffRole = "technician"
	// RoleStaff прочий персонал - в ёмкости слотов не учитывается
	RoleStaff StaffRole = "staff"
)

// Staff сотрудник центра (данные внешнего справочника, только чтение)
type Staff struct {
	ID       int64
	CenterID int64
	Role     StaffRole
}

// IsTechnician returns true if the staff member counts toward slot capacity
func (s *Staff) IsTechnician() bool {
	return s.Role == RoleTechnician
}
