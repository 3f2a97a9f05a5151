package dto

type TestConnectionDTO struct {
	Host                   string `json:"host" validate:"required,max=255"`
	Port                   int    `json:"port" validate:"omitempty,min=1,max=65535"`
	Database               string `json:"database" validate:"required,max=128"`
	User                   string `json:"user" validate:"required,max=128"`
	Password               string `json:"password"`
	Encrypt                bool   `json:"encrypt"`
	TrustServerCertificate bool   `json:"trustServerCertificate"`
}

type ExecuteQueryDTO struct {
	SQL    string        `json:"sql" validate:"required"`
	Params []interface{} `json:"params"`
}
