package auth

// Permission names checked by route policies. The catalog is open: any
// entity acquires standard capabilities by adding rows here.
const (
	PermViewAllUsers = "viewAllUsers"
	PermCreateUser   = "createUser"
	PermViewUserByID = "viewUserById"
	PermUpdateUser   = "updateUser"
	PermDeleteUser   = "deleteUser"

	PermViewAllRoles = "viewAllRoles"
	PermCreateRole   = "createRole"
	PermViewRoleByID = "viewRoleById"
	PermUpdateRole   = "updateRole"
	PermDeleteRole   = "deleteRole"

	PermViewAllPermissions = "viewAllPermissions"
	PermCreatePermission   = "createPermission"
	PermViewPermissionByID = "viewPermissionById"
	PermUpdatePermission   = "updatePermission"
	PermDeletePermission   = "deletePermission"

	PermViewAllCompanies = "viewAllCompanies"
	PermViewCompanyByID  = "viewCompanyById"
	PermCreateCompany    = "createCompany"
	PermUpdateCompany    = "updateCompany"
	PermDeleteCompany    = "deleteCompany"

	PermViewAllBranches = "viewAllBranches"
	PermViewBranchByID  = "viewBranchById"
	PermCreateBranch    = "createBranch"
	PermUpdateBranch    = "updateBranch"
	PermDeleteBranch    = "deleteBranch"

	PermViewAllLocations = "viewAllLocations"
	PermViewLocationByID = "viewLocationById"
	PermCreateLocation   = "createLocation"
	PermUpdateLocation   = "updateLocation"
	PermDeleteLocation   = "deleteLocation"

	PermViewAllAgents = "viewAllAgents"
	PermViewAgentByID = "viewAgentById"
	PermCreateAgent   = "createAgent"
	PermUpdateAgent   = "updateAgent"
	PermDeleteAgent   = "deleteAgent"

	PermViewAllAccounts = "viewAllAccounts"
	PermViewAccountByID = "viewAccountById"
	PermCreateAccount   = "createAccount"
	PermUpdateAccount   = "updateAccount"
	PermDeleteAccount   = "deleteAccount"
	PermRestoreAccount  = "restoreAccount"

	PermViewAllTransactions = "viewAllTransactions"
	PermViewTransactionByID = "viewTransactionById"
	PermCreateTransaction   = "createTransaction"
	PermUpdateTransaction   = "updateTransaction"
	PermDeleteTransaction   = "deleteTransaction"
	PermRestoreTransaction  = "restoreTransaction"

	PermViewTransactionLog     = "viewTransactionLog"
	PermViewTransactionLogByID = "viewTransactionLogById"
	PermCreateTransactionLog   = "createTransactionLog"
	PermDeleteTransactionLog   = "deleteTransactionLog"
	PermRestoreTransactionLog  = "restoreTransactionLog"

	PermViewJournalReport = "viewJournalReport"
)

// BuiltinPermissions is the bootstrap catalog. Seeded once when the
// permission count is zero; the sysadmin role owns all of them at boot.
var BuiltinPermissions = []Permission{
	{Name: PermViewAllUsers, Description: "View Users"},
	{Name: PermCreateUser, Description: "Create User"},
	{Name: PermViewUserByID, Description: "View User By Id"},
	{Name: PermUpdateUser, Description: "Update User"},
	{Name: PermDeleteUser, Description: "Delete User"},

	{Name: PermViewAllRoles, Description: "View Roles"},
	{Name: PermCreateRole, Description: "Create Role"},
	{Name: PermViewRoleByID, Description: "View Role By Id"},
	{Name: PermUpdateRole, Description: "Update Role"},
	{Name: PermDeleteRole, Description: "Delete Role"},

	{Name: PermViewAllPermissions, Description: "View Permissions"},
	{Name: PermCreatePermission, Description: "Create Permission"},
	{Name: PermViewPermissionByID, Description: "View Permission By Id"},
	{Name: PermUpdatePermission, Description: "Update Permission"},
	{Name: PermDeletePermission, Description: "Delete Permission"},

	{Name: PermViewAllCompanies, Description: "View Companies"},
	{Name: PermViewCompanyByID, Description: "View Company By Id"},
	{Name: PermCreateCompany, Description: "Create Company"},
	{Name: PermUpdateCompany, Description: "Update Company"},
	{Name: PermDeleteCompany, Description: "Delete Company"},

	{Name: PermViewAllBranches, Description: "View Branches"},
	{Name: PermViewBranchByID, Description: "View Branch By Id"},
	{Name: PermCreateBranch, Description: "Create Branch"},
	{Name: PermUpdateBranch, Description: "Update Branch"},
	{Name: PermDeleteBranch, Description: "Delete Branch"},

	{Name: PermViewAllLocations, Description: "View Locations"},
	{Name: PermViewLocationByID, Description: "View Location By Id"},
	{Name: PermCreateLocation, Description: "Create Location"},
	{Name: PermUpdateLocation, Description: "Update Location"},
	{Name: PermDeleteLocation, Description: "Delete Location"},

	{Name: PermViewAllAgents, Description: "View Agents"},
	{Name: PermViewAgentByID, Description: "View Agent By Id"},
	{Name: PermCreateAgent, Description: "Create Agent"},
	{Name: PermUpdateAgent, Description: "Update Agent"},
	{Name: PermDeleteAgent, Description: "Delete Agent"},

	{Name: PermViewAllAccounts, Description: "View Chart Of Accounts"},
	{Name: PermViewAccountByID, Description: "View Account By Id"},
	{Name: PermCreateAccount, Description: "Create Account"},
	{Name: PermUpdateAccount, Description: "Update Account"},
	{Name: PermDeleteAccount, Description: "Delete Account"},
	{Name: PermRestoreAccount, Description: "Restore Account"},

	{Name: PermViewAllTransactions, Description: "View Transactions"},
	{Name: PermViewTransactionByID, Description: "View Transaction By Id"},
	{Name: PermCreateTransaction, Description: "Create Transaction"},
	{Name: PermUpdateTransaction, Description: "Update Transaction"},
	{Name: PermDeleteTransaction, Description: "Delete Transaction"},
	{Name: PermRestoreTransaction, Description: "Restore Transaction"},

	{Name: PermViewTransactionLog, Description: "View Transaction Logs"},
	{Name: PermViewTransactionLogByID, Description: "View Transaction Log By Id"},
	{Name: PermCreateTransactionLog, Description: "Create Transaction Log"},
	{Name: PermDeleteTransactionLog, Description: "Delete Transaction Log"},
	{Name: PermRestoreTransactionLog, Description: "Restore Transaction Log"},

	{Name: PermViewJournalReport, Description: "View Journal Report"},
}
