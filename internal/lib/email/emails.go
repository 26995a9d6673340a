package email

// SendEmployeeRegisteredEmail tells a newly created employee that their
// profile is in the registry.
func (c *Client) SendEmployeeRegisteredEmail(to, fullName, department string) error {
	return c.SendEmail(
		to,
		"Your profile is in the Employee Registry",
		TemplateEmployeeRegistered,
		EmployeeRegisteredData(fullName, department),
	)
}

// EmployeeRegisteredData builds the template data of the registration email.
func EmployeeRegisteredData(fullName, department string) map[string]string {
	if fullName == "" {
		fullName = "there"
	}
	return map[string]string{
		"FullName":   fullName,
		"Department": department,
	}
}
