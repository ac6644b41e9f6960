package realtime

// Channel carries every update event; viewers subscribe to all of them and
// filter client-side.
const Channel = "agency:updates"

// Event names kept in the camelCase form the browser client listens for.
const (
	EventClientCreated = "clientCreated"
	EventClientUpdated = "clientUpdated"
	EventClientDeleted = "clientDeleted"

	EventProjectCreated = "projectCreated"
	EventProjectUpdated = "projectUpdated"
	EventProjectDeleted = "projectDeleted"

	EventTaskCreated = "taskCreated"
	EventTaskUpdated = "taskUpdated"
	EventTaskDeleted = "taskDeleted"

	EventMemberCreated = "teamMemberCreated"
	EventMemberUpdated = "teamMemberUpdated"
	EventMemberDeleted = "teamMemberDeleted"

	EventTimerStarted     = "timerStarted"
	EventTimerStopped     = "timerStopped"
	EventTimeEntryCreated = "timeEntryCreated"
	EventTimeEntryUpdated = "timeEntryUpdated"
	EventTimeEntryDeleted = "timeEntryDeleted"

	EventTemplateCreated = "templateCreated"
	EventTemplateUpdated = "templateUpdated"
	EventTemplateDeleted = "templateDeleted"

	EventInvoiceCreated = "invoiceCreated"
	EventInvoiceUpdated = "invoiceUpdated"
	EventInvoiceDeleted = "invoiceDeleted"
	EventInvoiceOverdue = "invoiceOverdue"

	EventCalendarEventCreated = "calendarEventCreated"
	EventCalendarEventUpdated = "calendarEventUpdated"
	EventCalendarEventDeleted = "calendarEventDeleted"

	EventMessageCreated = "messageCreated"

	EventFileUploaded = "fileUploaded"
	EventFileDeleted  = "fileDeleted"
)
