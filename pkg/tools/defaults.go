package tools

import (
	"context"
	"fmt"

	"github.com/bturcanu/voicehook/pkg/config"
	"github.com/bturcanu/voicehook/pkg/webhook"
)

// Tool names exposed to the agent.
const (
	ToolCheckDate       = "check_date"
	ToolBookings        = "bookings"
	ToolCreateEvent     = "create_event"
	ToolFindCustomer    = "find_customer"
	ToolGetAppointments = "get_appointments"
	ToolAgentFiller     = "agent_filler"
	ToolEndCall         = "end_call"
)

// requiredEndpoints are the backends the default tool set dispatches to.
var requiredEndpoints = []string{config.EndpointN8N, config.EndpointBooking, config.EndpointCRM}

// CheckEndpoints fails if a backend the default tools call is not configured.
func CheckEndpoints(endpoints *webhook.Registry) error {
	for _, name := range requiredEndpoints {
		if _, ok := endpoints.Lookup(name); !ok {
			return fmt.Errorf("%w: %s is required by the default tools", webhook.ErrUnknownEndpoint, name)
		}
	}
	return nil
}

// NewDefault builds the registry of every agent-facing tool on top of d.
func NewDefault(d Dispatcher, endpoints *webhook.Registry, opts Options) (*Registry, error) {
	if err := CheckEndpoints(endpoints); err != nil {
		return nil, err
	}
	return NewService(d, opts).Registry()
}

// Registry wires the service's adapters to their contracts.
func (s *Service) Registry() (*Registry, error) {
	return NewRegistry(
		Tool{Contract: checkDateContract, Handler: func(ctx context.Context, a Args) (any, error) {
			return s.ResolveDate(ctx, a.String("text"))
		}},
		Tool{Contract: bookingsContract, Handler: func(ctx context.Context, a Args) (any, error) {
			return s.ListAvailableTimes(ctx, a.String("date"))
		}},
		Tool{Contract: createEventContract, Handler: func(ctx context.Context, a Args) (any, error) {
			return s.CreateEvent(ctx, EventInput{
				Name:      a.String("name"),
				Email:     firstNonEmpty(a.String("email_lowercase"), a.String("email")),
				Phone:     a.String("phone"),
				StartTime: a.String("start_time"),
			})
		}},
		Tool{Contract: findCustomerContract, Handler: func(ctx context.Context, a Args) (any, error) {
			return s.FindCustomer(ctx, CustomerQuery{
				Phone:      a.String("phone"),
				Email:      a.String("email"),
				CustomerID: a.String("customer_id"),
			})
		}},
		Tool{Contract: getAppointmentsContract, Handler: func(ctx context.Context, a Args) (any, error) {
			return s.ListAppointments(ctx, AppointmentQuery{
				CustomerID: a.String("customer_id"),
				Phone:      a.String("phone"),
				Email:      a.String("email"),
			})
		}},
		Tool{Contract: agentFillerContract, Handler: func(_ context.Context, a Args) (any, error) {
			return AgentFiller(a.String("message_type")), nil
		}},
		Tool{Contract: endCallContract, Handler: func(_ context.Context, a Args) (any, error) {
			return EndCall(a.String("farewell_type")), nil
		}},
	)
}

var checkDateContract = Contract{
	Name: ToolCheckDate,
	Description: "Convert natural date expressions into YYYY-MM-DD format in clinic timezone. " +
		"Input natural language like 'today', 'tomorrow', 'Monday', 'next Tuesday', 'July 22nd'. " +
		"Returns standardized date format for use with the bookings function.",
	Parameters: []Param{
		{Name: "text", Type: "string", Required: true,
			Description: "Natural language date expression (e.g., 'tomorrow', 'Monday', 'next week')"},
	},
}

var bookingsContract = Contract{
	Name: ToolBookings,
	Description: "Get list of available appointment times for a specific date. " +
		"Input the YYYY-MM-DD date from check_date. Returns available start times in 24-hour HH:MM format.",
	Parameters: []Param{
		{Name: "date", Type: "string", Required: true,
			Description: "Date in YYYY-MM-DD format from check_date"},
	},
}

var createEventContract = Contract{
	Name: ToolCreateEvent,
	Description: "Create an appointment booking with customer details. " +
		"Use after collecting customer information and time selection. All fields are required.",
	Parameters: []Param{
		{Name: "name", Type: "string", Required: true,
			Description: "Customer's full name as confirmed in spelling confirmation"},
		{Name: "email_lowercase", Type: "string", Required: true,
			Description: "Customer's email address in lowercase"},
		{Name: "phone", Type: "string", Required: true,
			Description: "Customer's callback phone number"},
		{Name: "start_time", Type: "string", Required: true,
			Description: "Appointment start time in YYYY-MM-DDTHH:MM format (clinic timezone)"},
	},
}

var findCustomerContract = Contract{
	Name: ToolFindCustomer,
	Description: "Look up a customer's account information by phone number, email address or customer ID. " +
		"Provide whichever identifier the caller gave; phone is preferred over email, email over ID.",
	Parameters: []Param{
		{Name: "customer_id", Type: "string",
			Description: "Customer's ID formatted as CUSTXXXX, e.g. '42' becomes 'CUST0042'"},
		{Name: "phone", Type: "string",
			Description: "Phone number as +1XXXXXXXXXX with spaces, dashes and parentheses removed"},
		{Name: "email", Type: "string",
			Description: "Email address in standard format, e.g. 'j dot smith at example dot com' becomes 'j.smith@example.com'"},
	},
}

var getAppointmentsContract = Contract{
	Name: ToolGetAppointments,
	Description: "Retrieve upcoming appointments for a customer. Use when the caller asks about their " +
		"appointment schedule. Prefer the customer_id from find_customer; phone or email also work.",
	Parameters: []Param{
		{Name: "customer_id", Type: "string",
			Description: "Customer's ID in CUSTXXXX format, obtained from find_customer"},
		{Name: "phone", Type: "string",
			Description: "Phone number as +1XXXXXXXXXX when the customer ID is not known"},
		{Name: "email", Type: "string",
			Description: "Email address when neither customer ID nor phone is known"},
	},
}

var agentFillerContract = Contract{
	Name: ToolAgentFiller,
	Description: "Say a short acknowledgment while a lookup is in progress. " +
		"Use before calling a tool that may take a moment.",
	Parameters: []Param{
		{Name: "message_type", Type: "string", Required: true, Enum: []string{"lookup", "general"},
			Description: "Type of filler message to use"},
	},
}

var endCallContract = Contract{
	Name: ToolEndCall,
	Description: "End the conversation and close the connection. Call when the user says goodbye " +
		"or indicates they are done. Do not call if the user says thanks but keeps talking.",
	Parameters: []Param{
		{Name: "farewell_type", Type: "string", Required: true, Enum: []string{"thanks", "general", "help"},
			Description: "Type of farewell to use in response"},
	},
}
