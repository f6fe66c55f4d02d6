package backend

const (
	EndpointLogin               = "/customer/login"
	EndpointRegister            = "/customer/register"
	EndpointTrainSchedule       = "/train/fetch/schedule"
	EndpointTrainStops          = "/train/fetch/stops"
	EndpointReserveTicket       = "/train/reserve"
	EndpointFetchReservations   = "/train/fetch/reservations"
	EndpointCancelReservation   = "/train/reserve/cancel"
	EndpointEmployeeLogin       = "/employee/login"
	EndpointFetchReps           = "/employee/fetch/reps"
	EndpointCreateRep           = "/employee/create/rep"
	EndpointUpdateRep           = "/employee/update/rep"
	EndpointDeleteRep           = "/employee/delete/rep"
	EndpointSalesReport         = "/sales/report"
	EndpointSearchReservations  = "/employee/search/reservations"
	EndpointCalculateRevenue    = "/employee/revenue"
	EndpointMetadata            = "/employee/metadata"
	EndpointFetchQueries        = "/queries/fetch"
	EndpointCreateQuery         = "/queries/create"
	EndpointAnswerQuery         = "/queries/answer"
	EndpointTrainsForStation    = "/employee/fetch/trains"
	EndpointCustomersForTransit = "/employee/fetch/customers"
	EndpointUpdateSchedule      = "/employee/update/schedule"
	EndpointDeleteSchedule      = "/employee/delete/schedule"
)
