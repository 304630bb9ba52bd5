package services

// Services defined in this package:
// - UserService: account registration, login and profile management
// - MediaService: media records and the single-reference rule
// - SectionService: section catalog and media attachments
// - MaterialService: materials, section membership and status propagation
// - TestService: tests, questions, answers and test delivery
// - PaymentService: section purchases, the gateway flow and the ledger
