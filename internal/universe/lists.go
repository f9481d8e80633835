package universe

// ibovTickers are the IBOVESPA constituents, B3-qualified.
var ibovTickers = []string{
	"ALOS3.SA", "ABEV3.SA", "ASAI3.SA", "AURE3.SA", "AZUL4.SA", "AZZA3.SA", "B3SA3.SA", "BBSE3.SA",
	"BBDC3.SA", "BBDC4.SA", "BRAP4.SA", "BBAS3.SA", "BRKM5.SA", "BRAV3.SA", "BRFS3.SA", "BPAC11.SA",
	"CXSE3.SA", "CRFB3.SA", "CMIG4.SA", "COGN3.SA", "CPLE6.SA", "CSAN3.SA", "CPFE3.SA", "CMIN3.SA",
	"CVCB3.SA", "CYRE3.SA", "DIRR3.SA", "ELET3.SA", "ELET6.SA", "EMBR3.SA", "ENGI11.SA", "ENEV3.SA",
	"EGIE3.SA", "EQTL3.SA", "FLRY3.SA", "GGBR4.SA", "GOAU4.SA", "NTCO3.SA", "HAPV3.SA", "HYPE3.SA",
	"IGTI11.SA", "IRBR3.SA", "ISAE4.SA", "ITSA4.SA", "ITUB4.SA", "JBSS3.SA", "KLBN11.SA", "RENT3.SA",
	"LREN3.SA", "MGLU3.SA", "POMO4.SA", "MRFG3.SA", "BEEF3.SA", "MOTV3.SA", "MRVE3.SA", "MULT3.SA",
	"PCAR3.SA", "PETR3.SA", "PETR4.SA", "RECV3.SA", "PRIO3.SA", "PETZ3.SA", "PSSA3.SA", "RADL3.SA",
	"RAIZ4.SA", "RDOR3.SA", "RAIL3.SA", "SBSP3.SA", "SANB11.SA", "STBP3.SA", "SMTO3.SA", "CSNA3.SA",
	"SLCE3.SA", "SMFT3.SA", "SUZB3.SA", "TAEE11.SA", "VIVT3.SA", "TIMS3.SA", "TOTS3.SA", "UGPA3.SA",
	"USIM5.SA", "VALE3.SA", "VAMO3.SA", "VBBR3.SA", "VIVA3.SA", "WEGE3.SA", "YDUQ3.SA",
}

// sp500Tickers are the S&P 500 constituents as Yahoo symbols.
var sp500Tickers = []string{
	"MMM", "AOS", "ABT", "ABBV", "ABMD", "ACN", "ADBE", "AMD",
	"AES", "AFL", "A", "APD", "AKAM", "ALK", "ALB", "ARE",
	"ALGN", "ALLE", "LNT", "ALL", "GOOGL", "GOOG", "MO", "AMZN",
	"AMCR", "AEE", "AAL", "AEP", "AXP", "AIG", "AMT", "AWK",
	"AMP", "ABC", "AME", "AMGN", "APH", "ADI", "ANSS", "AON",
	"APA", "AAPL", "AMAT", "APTV", "ACGL", "ANET", "AJG", "AIZ",
	"T", "ATO", "ADSK", "AZO", "AVB", "AVY", "BKR", "BALL",
	"BAC", "BBWI", "BAX", "BDX", "WRB", "BRK.B", "BBY", "BIO",
	"TECH", "BIIB", "BLK", "BK", "BA", "BKNG", "BWA", "BXP",
	"BSX", "BMY", "AVGO", "BR", "BRO", "BF.B", "CHRW", "CDNS",
	"CZR", "CPB", "COF", "CAH", "KMX", "CCL", "CARR", "CTLT",
	"CAT", "CBOE", "CBRE", "CDW", "CE", "CNC", "CNP", "CDAY",
	"CF", "CRL", "SCHW", "CHTR", "CVX", "CMG", "CB", "CHD",
	"CI", "CINF", "CTAS", "CSCO", "C", "CFG", "CLX", "CME",
	"CMS", "KO", "CTSH", "CL", "CMCSA", "CMA", "CAG", "COP",
	"ED", "STZ", "CPRT", "GLW", "CTVA", "COST", "CTRA", "CCI",
	"CSX", "CMI", "CVS", "DHI", "DHR", "DRI", "DVA", "DE",
	"DAL", "XRAY", "DVN", "DXCM", "FANG", "DLR", "DFS", "DIS",
	"DG", "DLTR", "D", "DPZ", "DOV", "DOW", "DTE", "DUK",
	"DD", "DXC", "EMN", "ETN", "EBAY", "ECL", "EIX", "EW",
	"EA", "EMR", "ENPH", "ETR", "EOG", "EPAM", "EFX", "EQIX",
	"EQR", "ESS", "EL", "ETSY", "EG", "EVRG", "ES", "EXC",
	"EXPE", "EXPD", "EXR", "XOM", "FFIV", "FDS", "FAST", "FRT",
	"FDX", "FITB", "FRC", "FE", "FIS", "FISV", "FLT", "FMC",
	"F", "FTNT", "FTV", "FOXA", "FOX", "BEN", "FCX", "GRMN",
	"IT", "GE", "GEN", "GNRC", "GD", "GIS", "GM", "GPC",
	"GILD", "GPN", "GL", "GS", "HAL", "HIG", "HAS", "HCA",
	"PEAK", "HSIC", "HSY", "HES", "HPE", "HLT", "HOLX", "HD",
	"HON", "HRL", "HST", "HWM", "HPQ", "HUM", "HBAN", "HII",
	"IBM", "IEX", "IDXX", "ITW", "ILMN", "INCY", "IR", "INTC",
	"ICE", "IP", "IPG", "IFF", "INTU", "ISRG", "IVZ", "INVH",
	"IQV", "IRM", "JBHT", "JKHY", "J", "JNJ", "JCI", "JPM",
	"JNPR", "K", "KDP", "KEY", "KEYS", "KMB", "KIM", "KMI",
	"KLAC", "KHC", "KR", "LHX", "LH", "LRCX", "LW", "LVS",
	"LDOS", "LEN", "LNC", "LIN", "LYV", "LKQ", "LMT", "L",
	"LOW", "LUMN", "LYB", "MTB", "MRO", "MPC", "MKTX", "MAR",
	"MMC", "MLM", "MAS", "MA", "MTCH", "MKC", "MCD", "MCK",
	"MDT", "MRK", "META", "MET", "MTD", "MGM", "MCHP", "MU",
	"MSFT", "MAA", "MRNA", "MHK", "MOH", "TAP", "MDLZ", "MPWR",
	"MNST", "MCO", "MS", "MOS", "MSI", "MSCI", "NDAQ", "NTAP",
	"NFLX", "NWL", "NEM", "NWSA", "NWS", "NEE", "NKE", "NI",
	"NDSN", "NSC", "NTRS", "NOC", "NCLH", "NRG", "NUE", "NVDA",
	"NVR", "NXPI", "ORLY", "OXY", "ODFL", "OMC", "ON", "OKE",
	"ORCL", "OGN", "OTIS", "PCAR", "PKG", "PARA", "PH", "PAYX",
	"PAYC", "PYPL", "PNR", "PEP", "PFE", "PCG", "PM", "PSX",
	"PNW", "PXD", "PNC", "POOL", "PPG", "PPL", "PFG", "PG",
	"PGR", "PLD", "PRU", "PEG", "PTC", "PSA", "PHM", "PVH",
	"QRVO", "PWR", "QCOM", "DGX", "RL", "RJF", "RTX", "O",
	"REG", "REGN", "RF", "RSG", "RMD", "RVTY", "RHI", "ROK",
	"ROL", "ROP", "ROST", "RCL", "SPGI", "CRM", "SBAC", "SLB",
	"STX", "SEE", "SRE", "NOW", "SHW", "SPG", "SWKS", "SJM",
	"SNA", "SEDG", "SO", "LUV", "SWK", "SBUX", "STT", "STE",
	"SYK", "SYF", "SNPS", "SYY", "TMUS", "TROW", "TTWO", "TPR",
	"TRGP", "TGT", "TEL", "TDY", "TFX", "TER", "TSLA", "TXN",
	"TXT", "TMO", "TJX", "TSCO", "TT", "TDG", "TRV", "TRMB",
	"TFC", "TYL", "TSN", "USB", "UDR", "ULTA", "UNP", "UAL",
	"UPS", "URI", "UNH", "UHS", "VLO", "VTR", "VRSN", "VRSK",
	"VZ", "VRTX", "VFC", "VTRS", "VICI", "V", "VMC", "WAB",
	"WMT", "WBD", "WM", "WAT", "WEC", "WFC", "WELL", "WST",
	"WDC", "WRK", "WY", "WHR", "WMB", "WTW", "GWW", "WYNN",
	"XEL", "XYL", "YUM", "ZBRA", "ZBH", "ZION", "ZTS",
}
