/*
presets.go - Pre-built leave type configurations

PURPOSE:
  Ready-to-use leave type policies for common HR patterns. These are
  convenience constructors that fill in typical parameters; administrators
  edit the result before or after saving it through the Catalog.

AVAILABLE PRESETS:
  StandardAnnualLeave: monthly-accrued vacation with capped carry-over
  StandardSickLeave:   full upfront grant, attachment required, no carry-over
  UnpaidLeave:         flat allowance, no pay, no carry-over
  MaternityLeave:      one-time yearly grant, female only, tenure gated

CUSTOMIZATION:
  These are starting points. Real deployments often adjust carry-over caps,
  tenure gates, and per-request bounds per jurisdiction.

SEE ALSO:
  - catalog.go: validation and persistence of leave types
*/
package leave

// StandardAnnualLeave returns a typical paid vacation policy: annualDays per
// year accrued monthly, up to maxCarryOver days rolling into the next year.
func StandardAnnualLeave(id LeaveTypeID, annualDays, maxCarryOver float64) *LeaveType {
	return &LeaveType{
		ID:                id,
		Name:              "Annual Leave",
		Category:          CategoryAnnual,
		IsPaid:            true,
		SalaryPercentage:  100,
		MaxDaysPerYear:    DaysOf(annualDays),
		MinDaysPerRequest: DaysFromInt(1),
		MaxDaysPerRequest: DaysOf(annualDays),
		AllowHalfDay:      true,
		AccrualType:       AccrualMonthly,
		AccrualRate:       DaysOf(annualDays / 12),
		CarryOverAllowed:  true,
		MaxCarryOverDays:  DaysOf(maxCarryOver),
		GenderRestriction: GenderAll,
		IsActive:          true,
	}
}

// StandardSickLeave returns a typical paid sick leave policy: the full
// allowance is available immediately, a medical certificate is required,
// and unused days expire at year end.
func StandardSickLeave(id LeaveTypeID, annualDays float64) *LeaveType {
	return &LeaveType{
		ID:                 id,
		Name:               "Sick Leave",
		Category:           CategorySick,
		IsPaid:             true,
		SalaryPercentage:   100,
		MaxDaysPerYear:     DaysOf(annualDays),
		MinDaysPerRequest:  HalfDay(),
		MaxDaysPerRequest:  DaysOf(annualDays),
		AllowHalfDay:       true,
		RequiresAttachment: true,
		AccrualType:        AccrualNone,
		GenderRestriction:  GenderAll,
		IsActive:           true,
	}
}

// UnpaidLeave returns an unpaid leave policy with a flat yearly allowance.
func UnpaidLeave(id LeaveTypeID, annualDays float64) *LeaveType {
	return &LeaveType{
		ID:                id,
		Name:              "Unpaid Leave",
		Category:          CategoryUnpaid,
		MaxDaysPerYear:    DaysOf(annualDays),
		MinDaysPerRequest: DaysFromInt(1),
		MaxDaysPerRequest: DaysOf(annualDays),
		AccrualType:       AccrualNone,
		GenderRestriction: GenderAll,
		IsActive:          true,
	}
}

// MaternityLeave returns a maternity leave policy: a one-time yearly grant,
// restricted to female employees, gated on tenure.
func MaternityLeave(id LeaveTypeID, days float64, minServiceMonths int) *LeaveType {
	return &LeaveType{
		ID:                 id,
		Name:               "Maternity Leave",
		Category:           CategoryMaternity,
		IsPaid:             true,
		SalaryPercentage:   100,
		MaxDaysPerYear:     DaysOf(days),
		MinDaysPerRequest:  DaysFromInt(1),
		MaxDaysPerRequest:  DaysOf(days),
		RequiresAttachment: true,
		AccrualType:        AccrualYearly,
		MinServiceMonths:   minServiceMonths,
		GenderRestriction:  GenderFemaleOnly,
		IsActive:           true,
	}
}
