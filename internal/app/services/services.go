package services

// Services defined in this package:
// - AuthService: admin authentication
// - StudentService: student records and roster import
// - CatalogService: programs and academic years
// - StructureService: diploma template configuration
// - IssuanceService: render, seal and register diplomas
// - DiplomaService: listings and sealed-document downloads
// - RevocationService: cancel and reinstate diplomas
// - VerificationService: public token and file verification
// - AuditService: verification trail and dashboard counters
