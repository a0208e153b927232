package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scparapente/baptctl/booking"
)

func newCustomerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	cmd.AddCommand(newCustomerCreateCmd(a))

	return cmd
}

func newCustomerCreateCmd(a *app) *cobra.Command {
	var (
		file     string
		customer booking.Customer
		measures customerMeasures
		extra    map[string]string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new customer",
		Long: `Register a new customer. All ten fields are required: firstname, lastname,
email, phone, adress, postalCode, city, country, height (cm) and weight (kg).
Missing fields are reported before anything is sent.

Fields can come from flags, from a JSON or YAML file, or both; flags win.
Unknown keys in the file and --set pairs are sent as extra fields.

Examples:
  baptctl customer create --file pierre.yaml
  baptctl customer create --firstname Pierre --lastname Dubois ... --height 180 --weight 75`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record := booking.Customer{}
			if file != "" {
				loaded, err := readCustomerFile(file)
				if err != nil {
					return err
				}
				record = loaded
			}

			mergeCustomerFlags(cmd, &record, customer, measures)
			for k, v := range extra {
				if record.Extra == nil {
					record.Extra = make(map[string]any, len(extra))
				}
				record.Extra[k] = v
			}

			resp, err := a.client.CreateCustomer(cmd.Context(), record)
			if err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}

			created, err := resp.Result()
			if err != nil {
				return err
			}

			a.logger.Info().Str("id", created.ID).Str("email", created.Email).Msg("Customer created")

			out, err := a.formatter(cmd)
			if err != nil {
				return err
			}
			return out.Customer(created)
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "", "read the customer from a JSON or YAML file")
	f.StringVar(&customer.FirstName, "firstname", "", "first name")
	f.StringVar(&customer.LastName, "lastname", "", "last name")
	f.StringVar(&customer.Email, "email", "", "email address")
	f.StringVar(&customer.Phone, "phone", "", "phone number")
	f.StringVar(&customer.Address, "adress", "", "street address")
	f.StringVar(&customer.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&customer.City, "city", "", "city")
	f.StringVar(&customer.Country, "country", "", "country")
	f.StringVar(&measures.height, "height", "", "height in cm")
	f.StringVar(&measures.weight, "weight", "", "weight in kg")
	f.StringToStringVar(&extra, "set", nil, "extra field as key=value (repeatable)")

	return cmd
}

// readCustomerFile decodes a customer from YAML. JSON files decode too.
func readCustomerFile(path string) (booking.Customer, error) {
	var c booking.Customer

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read customer file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse customer file %s: %w", path, err)
	}
	if len(c.MissingFields()) == len(booking.RequiredFields()) && len(c.Extra) == 0 {
		return c, errors.New("customer file is empty")
	}
	return c, nil
}

// customerMeasures holds --height and --weight verbatim
type customerMeasures struct {
	height string
	weight string
}

// mergeCustomerFlags copies every field whose flag was set onto c
func mergeCustomerFlags(cmd *cobra.Command, c *booking.Customer, flags booking.Customer, m customerMeasures) {
	changed := cmd.Flags().Changed
	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}

	set("firstname", &c.FirstName, flags.FirstName)
	set("lastname", &c.LastName, flags.LastName)
	set("email", &c.Email, flags.Email)
	set("phone", &c.Phone, flags.Phone)
	set("adress", &c.Address, flags.Address)
	set("postal-code", &c.PostalCode, flags.PostalCode)
	set("city", &c.City, flags.City)
	set("country", &c.Country, flags.Country)
	if changed("height") {
		c.Height = m.height
	}
	if changed("weight") {
		c.Weight = m.weight
	}
}
