package model

import (
	"bytes"
	"encoding/json"
)

// PostalAddressResponse is the ViaCEP lookup body.
type PostalAddressResponse struct {
	PostalCode string   `json:"cep"`
	Street     string   `json:"logradouro"`
	City       string   `json:"localidade"`
	State      string   `json:"uf"`
	Error      FlagBool `json:"erro"`
}

// FlagBool accepts both true and "true", ViaCEP has used each over time.
type FlagBool bool

func (b *FlagBool) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*b = FlagBool(value)

	return nil
}
