package order

const (
	MethodPix      = "pagbank_paymentmagento_pix"
	MethodDeepLink = "pagbank_paymentmagento_deep_link"
	MethodBoleto   = "pagbank_paymentmagento_boleto"
	MethodCC       = "pagbank_paymentmagento_cc"
	MethodVault    = "pagbank_paymentmagento_cc_vault"
)

// SweepMethods lists the payment method groups visited by the scheduled sweep.
var SweepMethods = []string{MethodPix, MethodDeepLink, MethodBoleto, MethodCC, MethodVault}
