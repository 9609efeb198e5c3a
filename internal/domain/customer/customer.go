package customer

type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func NewCustomer(name, email string, age int) *Customer {
	return &Customer{
		Name:  name,
		Email: email,
		Age:   age,
	}
}

// CustomerUpdate is a sparsely populated customer. Nil fields are absent and must be
// left untouched by CustomerDao.UpdateCustomer.
type CustomerUpdate struct {
	ID    int64
	Name  *string
	Email *string
	Age   *int
}

func (u CustomerUpdate) HasChanges() bool {
	return u.Name != nil || u.Email != nil || u.Age != nil
}

// ApplyTo copies the present fields onto c. The id is never touched.
func (u CustomerUpdate) ApplyTo(c *Customer) {
	if c == nil {
		return
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Age != nil {
		c.Age = *u.Age
	}
}

type CustomerRegistrationRequest struct {
	Name  string
	Email string
	Age   int
}

// CustomerUpdateRequest carries optional fields; nil means "leave unchanged".
type CustomerUpdateRequest struct {
	Name  *string
	Email *string
	Age   *int
}
