package payroll

import "fmt"

// BaseSchedule is the yearly base pay for job categories 1 through 10.
var BaseSchedule = [10]float64{50000, 70000, 90000, 110000, 130000, 150000, 170000, 190000, 210000, 230000}

// SeniorityBonus is added once per year of seniority.
const SeniorityBonus = 5000.0

func BaseSalary(category int) (float64, error) {
	if category < 1 || category > len(BaseSchedule) {
		return 0, fmt.Errorf("%w: %d", ErrCategoryOutOfRange, category)
	}
	return BaseSchedule[category-1], nil
}

func ComputeSalary(category int, seniorityYears float64) (float64, error) {
	base, err := BaseSalary(category)
	if err != nil {
		return 0, err
	}
	return base + SeniorityBonus*seniorityYears, nil
}
